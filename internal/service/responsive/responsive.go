package responsive

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
)

type Executor interface {
	Run(ctx context.Context, op cmdadapter.Operation) (string, error)
}

// BuildPlan computes the 0x, 1x and 2x variants of src. Raster sources are never upscaled,
// vector sources are always rendered at the cap.
func BuildPlan(src, dest string, info entity.FileInfo, cfg config.PlanConfig) entity.ConversionPlan {
	horizontal := info.Orientation() == entity.OrientationHorizontal

	limit, native := cfg.MaxHeight, info.Height
	if horizontal {
		limit, native = cfg.MaxWidth, info.Width
	}

	baseline := limit
	if !info.IsVector() {
		baseline = min(native, limit)
	}

	sizes := map[string]int{
		entity.SizeSmall:  cfg.SmallSize,
		entity.SizeNormal: baseline / 2,
		entity.SizeDouble: baseline,
	}

	plan := entity.ConversionPlan{Source: src}
	for _, label := range entity.SizeLabels {
		size := sizes[label]

		plan.Resizes = append(plan.Resizes, entity.PlannedResize{
			ResizeQuery: entity.ResizeQuery{
				Label:    label,
				Size:     size,
				Geometry: geometry(size, horizontal),
			},
			Dest: entity.VariantName(dest, label),
		})
	}

	return plan
}

func geometry(size int, horizontal bool) string {
	if horizontal {
		return strconv.Itoa(size) + "x"
	}

	return "x" + strconv.Itoa(size)
}

type Renderer struct {
	exec Executor
	cfg  config.PlanConfig
	log  *slog.Logger
}

func NewRenderer(exec Executor, cfg config.PlanConfig, log *slog.Logger) *Renderer {
	return &Renderer{
		exec: exec,
		cfg:  cfg,
		log:  log.With(slog.String("item", "Renderer")),
	}
}

// Render writes every variant of src one after another. A failed variant does not stop the others;
// the returned errors list the variants that were not produced.
func (r *Renderer) Render(ctx context.Context, src, dest string, info entity.FileInfo) []error {
	plan := BuildPlan(src, dest, info, r.cfg)

	var failed []error
	for _, rs := range plan.Resizes {
		if err := ctx.Err(); err != nil {
			failed = append(failed, fmt.Errorf("cannot render %s: %w", rs.Dest, err))

			continue
		}

		if _, err := r.exec.Run(ctx, cmdadapter.Resize(src, rs.Geometry, rs.Dest)); err != nil {
			r.log.Warn("Variant is not produced", slog.String("label", rs.Label), slog.String("dest", rs.Dest), slog.Any("error", err))
			failed = append(failed, fmt.Errorf("cannot render %s: %w", rs.Dest, err))

			continue
		}

		r.log.Debug("Variant", slog.String("label", rs.Label), slog.Int("size", rs.Size), slog.String("dest", rs.Dest))
	}

	return failed
}
