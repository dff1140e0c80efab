package fileinfo

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/entity"
)

const layerMarker = "[0]"

type Executor interface {
	Run(ctx context.Context, op cmdadapter.Operation) (string, error)
}

// Parse builds FileInfo from an identify report for path.
// Each report line describes one layer or page; only the first line is parsed.
func Parse(path, report string) (entity.FileInfo, error) {
	report = strings.TrimSpace(report)
	if report == "" {
		return entity.FileInfo{}, fmt.Errorf("%w: %s", common.ErrEmptyReport, path)
	}

	layers := strings.Split(report, "\n")
	line := stripName(strings.TrimSpace(layers[0]), path, len(layers) > 1)

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return entity.FileInfo{}, fmt.Errorf("%w: %s: %q", common.ErrUnparsableReport, path, layers[0])
	}

	width, height, err := parseGeometry(fields[1])
	if err != nil {
		return entity.FileInfo{}, fmt.Errorf("%w: %s: %w", common.ErrUnparsableReport, path, err)
	}

	return entity.FileInfo{
		Format: fields[0],
		Width:  width,
		Height: height,
		Layers: len(layers),
	}, nil
}

// stripName removes the printed file name so that names containing spaces do not shift the fields.
func stripName(line, path string, multi bool) string {
	names := []string{path, filepath.Base(path)}

	for _, name := range names {
		if name == "" || name == "." {
			continue
		}

		if multi && strings.Contains(line, name+layerMarker) {
			return strings.Replace(line, name+layerMarker, "", 1)
		}

		if strings.Contains(line, name) {
			line = strings.Replace(line, name, "", 1)

			return strings.TrimPrefix(strings.TrimSpace(line), layerMarker)
		}
	}

	return line
}

func parseGeometry(token string) (int, int, error) {
	w, h, ok := strings.Cut(token, "x")
	if !ok {
		return 0, 0, fmt.Errorf("bad geometry %q", token)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("bad width in %q: %w", token, err)
	}

	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("bad height in %q: %w", token, err)
	}

	if width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("geometry %q must be positive", token)
	}

	return width, height, nil
}

type Inspector struct {
	exec Executor
	log  *slog.Logger
}

func NewInspector(exec Executor, log *slog.Logger) *Inspector {
	return &Inspector{
		exec: exec,
		log:  log.With(slog.String("item", "Inspector")),
	}
}

// Inspect identifies path. An identify failure yields an empty report and therefore a parse error.
func (i *Inspector) Inspect(ctx context.Context, path string) (entity.FileInfo, error) {
	report, err := i.exec.Run(ctx, cmdadapter.Identify(path))
	if err != nil {
		i.log.Debug("Identify failed", slog.String("path", path), slog.Any("error", err))
	}

	info, perr := Parse(path, report)
	if perr != nil {
		if err != nil {
			return entity.FileInfo{}, fmt.Errorf("%w (%w)", perr, err)
		}

		return entity.FileInfo{}, perr
	}

	return info, nil
}
