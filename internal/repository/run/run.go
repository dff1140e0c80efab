package run

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/jgivc/mediaconvert/internal/util"
	"github.com/redis/go-redis/v9"
)

const (
	KeyNamespace = "mc"
	KeyRun       = "run"      // HASH. mc:run:source_id field: value. Last run of a source directory.
	KeyManifest  = "manifest" // STRING. mc:manifest:source_id -> manifest JSON.
	KeyRuns      = "runs"     // ZSET. mc:runs source_id scored by finish unix time.

	KeySeparator = ":"

	fieldRunID            = "run_id"
	fieldSourceDir        = "source_dir"
	fieldOutputDir        = "output_dir"
	fieldStartedAt        = "started_at"
	fieldFinishedAt       = "finished_at"
	fieldUnits            = "units"
	fieldFailedUnits      = "failed_units"
	fieldFailedOperations = "failed_operations"
	fieldRecords          = "records"
)

type runRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewRunRepository(cl *redis.Client, log *slog.Logger) *runRepository {
	return &runRepository{
		cl:  cl,
		log: log.With(slog.String("item", "RunRepository")),
	}
}

// SourceID is the stable id of a source directory.
func SourceID(sourceDir string) string {
	return util.GetIDFromString(&sourceDir)
}

func (r *runRepository) Save(ctx context.Context, s *entity.RunSummary) error {
	id := SourceID(s.SourceDir)

	manifest, err := json.Marshal(s.Manifest)
	if err != nil {
		return fmt.Errorf("cannot marshal manifest: %w", err)
	}

	pipe := r.cl.Pipeline()
	pipe.HSet(ctx, getKey(KeyNamespace, KeyRun, id), toHash(s))
	pipe.Set(ctx, getKey(KeyNamespace, KeyManifest, id), manifest, 0)
	pipe.ZAdd(ctx, getKey(KeyNamespace, KeyRuns), redis.Z{Score: float64(s.FinishedAt.Unix()), Member: id})

	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("Cannot save run", slog.String("run_id", s.RunID), slog.Any("error", err))

		return fmt.Errorf("cannot save run %s: %w", s.RunID, err)
	}

	r.log.Info("Run saved", slog.String("run_id", s.RunID), slog.String("source_id", id))

	return nil
}

// Recent returns up to n last runs, newest first, without their manifests.
func (r *runRepository) Recent(ctx context.Context, n int64) ([]*entity.RunSummary, error) {
	if n < 1 {
		return []*entity.RunSummary{}, nil
	}

	ids, err := r.cl.ZRevRange(ctx, getKey(KeyNamespace, KeyRuns), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get run list: %w", err)
	}

	if len(ids) == 0 {
		return []*entity.RunSummary{}, nil
	}

	pipe := r.cl.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, pipe.HGetAll(ctx, getKey(KeyNamespace, KeyRun, id)))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("cannot exec pipe: %w", err)
	}

	runs := make([]*entity.RunSummary, 0, len(ids))
	for i, cmd := range cmds {
		h, err := cmd.Result()
		if err != nil || len(h) == 0 {
			r.log.Warn("Run is gone", slog.String("source_id", ids[i]), slog.Any("error", err))

			continue
		}

		s, err := fromHash(h)
		if err != nil {
			r.log.Error("Cannot decode run", slog.String("source_id", ids[i]), slog.Any("error", err))

			continue
		}

		runs = append(runs, s)
	}

	return runs, nil
}

func toHash(s *entity.RunSummary) map[string]any {
	return map[string]any{
		fieldRunID:            s.RunID,
		fieldSourceDir:        s.SourceDir,
		fieldOutputDir:        s.OutputDir,
		fieldStartedAt:        s.StartedAt.UTC().Format(time.RFC3339),
		fieldFinishedAt:       s.FinishedAt.UTC().Format(time.RFC3339),
		fieldUnits:            s.Units,
		fieldFailedUnits:      s.FailedUnits,
		fieldFailedOperations: s.FailedOperations,
		fieldRecords:          len(s.Manifest),
	}
}

func fromHash(h map[string]string) (*entity.RunSummary, error) {
	s := &entity.RunSummary{
		RunID:     h[fieldRunID],
		SourceDir: h[fieldSourceDir],
		OutputDir: h[fieldOutputDir],
	}

	var err error
	if s.StartedAt, err = time.Parse(time.RFC3339, h[fieldStartedAt]); err != nil {
		return nil, fmt.Errorf("bad %s: %w", fieldStartedAt, err)
	}
	if s.FinishedAt, err = time.Parse(time.RFC3339, h[fieldFinishedAt]); err != nil {
		return nil, fmt.Errorf("bad %s: %w", fieldFinishedAt, err)
	}

	for field, dst := range map[string]*int{
		fieldUnits:            &s.Units,
		fieldFailedUnits:      &s.FailedUnits,
		fieldFailedOperations: &s.FailedOperations,
	} {
		if *dst, err = strconv.Atoi(h[field]); err != nil {
			return nil, fmt.Errorf("bad %s: %w", field, err)
		}
	}

	return s, nil
}

func getKey(keys ...string) string {
	return strings.Join(keys, KeySeparator)
}

type nopRepository struct {
	log *slog.Logger
}

// NewNopRepository returns a ledger that only logs runs. It is used when no redis is configured.
func NewNopRepository(log *slog.Logger) *nopRepository {
	return &nopRepository{log: log.With(slog.String("item", "RunRepository"))}
}

func (r *nopRepository) Save(_ context.Context, s *entity.RunSummary) error {
	r.log.Info("Run finished",
		slog.String("run_id", s.RunID),
		slog.String("source_dir", s.SourceDir),
		slog.Int("units", s.Units),
		slog.Int("failed_units", s.FailedUnits),
		slog.Int("records", len(s.Manifest)),
	)

	return nil
}

func (r *nopRepository) Recent(context.Context, int64) ([]*entity.RunSummary, error) {
	return []*entity.RunSummary{}, nil
}
