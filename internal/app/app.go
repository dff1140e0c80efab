package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/adapter/fsadapter"
	"github.com/jgivc/mediaconvert/internal/adapter/mdadapter"
	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/jgivc/mediaconvert/internal/repository/run"
	"github.com/jgivc/mediaconvert/internal/service/batch"
	"github.com/jgivc/mediaconvert/internal/service/catalog"
	"github.com/jgivc/mediaconvert/internal/service/convert"
	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 5 * time.Second
)

type RunRepository interface {
	Save(ctx context.Context, s *entity.RunSummary) error
	Recent(ctx context.Context, n int64) ([]*entity.RunSummary, error)
}

type App struct {
	cfgPath   string
	logLevel  string
	cfg       *config.Config
	out       io.Writer
	rdb       *redis.Client
	runs      RunRepository
	converter *convert.Converter
	batch     *batch.BatchService
	catalog   *catalog.CatalogService
	log       *slog.Logger
}

// New creates the application. A non-empty logLevel overrides the configured one.
func New(cfgPath, logLevel string) *App {
	return &App{
		cfgPath:  cfgPath,
		logLevel: logLevel,
		out:      os.Stdout,
	}
}

func (a *App) Start() error {
	a.cfg = config.MustLoad(a.cfgPath)

	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		return fmt.Errorf("unknown log level: %q", a.cfg.LogLevel)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	a.runs = run.NewNopRepository(log)
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("cannot parse redis url: %w", err)
		}

		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()

			return fmt.Errorf("cannot connect to redis: %w", err)
		}

		a.rdb = rdb
		a.runs = run.NewRunRepository(rdb, log)
	}

	docs, err := mdadapter.NewRenderer(&a.cfg.ConvertConfig)
	if err != nil {
		return err
	}

	fsa := fsadapter.NewFSAdapter(log)
	exec := cmdadapter.NewExecutor(&a.cfg.EngineConfig, log)

	a.converter = convert.NewConverter(fsa, exec, docs, a.runs, &a.cfg.ConvertConfig, log)
	a.batch = batch.NewBatchService(a.converter, fsa, a.out, log)
	a.catalog = catalog.NewCatalogService(fsa, &a.cfg.CatalogConfig, &a.cfg.ConvertConfig, log)

	return nil
}

func (a *App) Convert(ctx context.Context, dir string) error {
	summary, err := a.converter.Convert(ctx, dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s -> %s, records: %d, failed units: %d, failed operations: %d\n",
		summary.SourceDir, summary.OutputDir, len(summary.Manifest), summary.FailedUnits, summary.FailedOperations)

	return nil
}

func (a *App) Batch(ctx context.Context, root string, indexed bool) error {
	if indexed {
		return a.batch.RunIndexed(ctx, root)
	}

	return a.batch.RunSequence(ctx, root)
}

func (a *App) Years(root string) error {
	path, err := a.catalog.WriteYearsCSV(root)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, path)

	return nil
}

func (a *App) Frontmatter(root string) error {
	written, err := a.catalog.WriteFrontmatter(root)
	for _, path := range written {
		fmt.Fprintln(a.out, path)
	}

	return err
}

func (a *App) History(ctx context.Context, n int64) error {
	runs, err := a.runs.Recent(ctx, n)
	if err != nil {
		return err
	}

	for i, r := range runs {
		fmt.Fprintf(a.out, "%d. %s %s -> %s, units: %d, failed: %d\n",
			i+1, r.FinishedAt.Local().Format(time.DateTime), r.SourceDir, r.OutputDir, r.Units, r.FailedUnits)
	}

	return nil
}

func (a *App) Stop() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Error("Cannot close redis client", slog.Any("error", err))
		}
	}
}
