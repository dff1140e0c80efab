package animation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/jgivc/mediaconvert/internal/service/classify"
)

type Executor interface {
	Run(ctx context.Context, op cmdadapter.Operation) (string, error)
}

type FSAdapter interface {
	Glob(pattern string) ([]string, error)
	IsDir(path string) bool
	Stat(path string) (entity.FileStat, error)
}

type Assembler struct {
	fs   FSAdapter
	exec Executor
	log  *slog.Logger
}

func NewAssembler(fs FSAdapter, exec Executor, log *slog.Logger) *Assembler {
	return &Assembler{
		fs:   fs,
		exec: exec,
		log:  log.With(slog.String("item", "Assembler")),
	}
}

// Frames lists the files of dir that become animation frames, in name order.
func (a *Assembler) Frames(dir string) ([]string, error) {
	matches, err := a.fs.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return nil, fmt.Errorf("cannot list frames of %s: %w", dir, err)
	}

	var frames []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), ".") || a.fs.IsDir(m) {
			continue
		}
		frames = append(frames, m)
	}

	return frames, nil
}

// Assemble writes the frames of group into destGif and returns the record describing it.
func (a *Assembler) Assemble(ctx context.Context, group entity.AnimationGroup, destGif string) (entity.FileRecord, error) {
	var first string
	for _, m := range group.Members {
		if classify.IsImageFamily(filepath.Ext(m)) {
			first = m
			break
		}
	}

	if first == "" {
		return entity.FileRecord{}, fmt.Errorf("%w: %s", common.ErrNoFrames, group.Path)
	}

	stat, err := a.fs.Stat(first)
	if err != nil {
		return entity.FileRecord{}, fmt.Errorf("cannot stat %s: %w", first, err)
	}

	frames, err := a.Frames(group.Path)
	if err != nil {
		return entity.FileRecord{}, err
	}

	if len(frames) == 0 {
		return entity.FileRecord{}, fmt.Errorf("%w: %s", common.ErrNoFrames, group.Path)
	}

	if _, err := a.exec.Run(ctx, cmdadapter.AssembleAnimation(frames, destGif)); err != nil {
		return entity.FileRecord{}, fmt.Errorf("cannot assemble %s: %w", destGif, err)
	}

	a.log.Debug("Assembled", slog.String("group", group.RelPath), slog.Int("frames", len(frames)), slog.String("dest", destGif))

	return entity.FileRecord{
		Filename: filepath.Base(group.Path) + ".gif",
		Dirname:  parentRel(group.RelPath),
		Metadata: stat,
	}, nil
}

func parentRel(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return ""
	}

	return dir
}
