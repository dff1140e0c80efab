package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/entity"
)

const convertedMarker = "converted"

type Converter interface {
	Convert(ctx context.Context, sourceDir string) (*entity.RunSummary, error)
}

type FSAdapter interface {
	ListDirs(root string) ([]string, error)
}

type BatchService struct {
	running atomic.Bool
	conv    Converter
	fs      FSAdapter
	out     io.Writer
	log     *slog.Logger
}

// NewBatchService creates the batch driver. Progress lines are written to out.
func NewBatchService(conv Converter, fs FSAdapter, out io.Writer, log *slog.Logger) *BatchService {
	return &BatchService{
		conv: conv,
		fs:   fs,
		out:  out,
		log:  log.With(slog.String("item", "BatchService")),
	}
}

// ListUnits returns the unit directories directly under root, skipping names starting with "." or "_".
func (b *BatchService) ListUnits(root string, excludeConverted bool) ([]string, error) {
	names, err := b.fs.ListDirs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", root, err)
	}

	units := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		if excludeConverted && strings.Contains(name, convertedMarker) {
			continue
		}

		units = append(units, filepath.Join(root, name))
	}

	return units, nil
}

// RunSequence converts every unit under root one after another, leaving out earlier outputs.
func (b *BatchService) RunSequence(ctx context.Context, root string) error {
	if err := b.run(ctx, root, true); err != nil {
		return err
	}

	fmt.Fprintf(b.out, "%s is done\n", root)

	return nil
}

// RunIndexed converts every unit under root one after another, including directories named as outputs.
func (b *BatchService) RunIndexed(ctx context.Context, root string) error {
	if err := b.run(ctx, root, false); err != nil {
		return err
	}

	fmt.Fprintln(b.out, "all done")

	return nil
}

func (b *BatchService) run(ctx context.Context, root string, excludeConverted bool) error {
	if !b.running.CompareAndSwap(false, true) {
		return common.ErrBatchAlreadyRunning
	}
	defer b.running.Store(false)

	units, err := b.ListUnits(root, excludeConverted)
	if err != nil {
		b.log.Error("Cannot list units", slog.String("root", root), slog.Any("error", err))

		return err
	}

	b.log.Info("Start batch", slog.String("root", root), slog.Int("units", len(units)))

	var errs []error
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, fmt.Errorf("batch interrupted: %w", err))...)
		}

		summary, err := b.conv.Convert(ctx, unit)
		if err != nil {
			b.log.Error("Cannot convert unit", slog.String("unit", unit), slog.Any("error", err))
			fmt.Fprintf(b.out, "%d: %s failed: %s\n", i, unit, err)
			errs = append(errs, fmt.Errorf("cannot convert %s: %w", unit, err))

			continue
		}

		b.log.Debug("Unit done", slog.String("unit", unit), slog.Int("records", len(summary.Manifest)))
		fmt.Fprintf(b.out, "%d: %s is done\n", i, unit)
	}

	return errors.Join(errs...)
}
