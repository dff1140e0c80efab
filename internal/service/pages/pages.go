package pages

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/jgivc/mediaconvert/internal/util"
)

type Executor interface {
	Run(ctx context.Context, op cmdadapter.Operation) (string, error)
}

type Renderer interface {
	Render(ctx context.Context, src, dest string, info entity.FileInfo) []error
}

type FSAdapter interface {
	TempDir(dir, prefix string) (string, error)
	Glob(pattern string) ([]string, error)
	RemoveGlob(pattern string) (int, error)
	RemoveAll(path string) error
}

type Extractor struct {
	fs      FSAdapter
	exec    Executor
	render  Renderer
	tempDir string
	log     *slog.Logger
}

// NewExtractor creates an extractor keeping its temporary pages under tempDir, the system default when empty.
func NewExtractor(fs FSAdapter, exec Executor, render Renderer, tempDir string, log *slog.Logger) *Extractor {
	return &Extractor{
		fs:      fs,
		exec:    exec,
		render:  render,
		tempDir: tempDir,
		log:     log.With(slog.String("item", "Extractor")),
	}
}

// Slug is the page file prefix of src: pdf-annual-report for "Annual Report.pdf".
func Slug(src string) string {
	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)

	return strings.ToLower(strings.TrimPrefix(ext, ".") + "-" + util.Slug(base))
}

// Explode renders every page of src as responsive variants in destDir.
// It returns the page prefix and the operations that produced nothing.
func (x *Extractor) Explode(ctx context.Context, src string, info entity.FileInfo, destDir string) (string, []error) {
	slug := Slug(src)

	pages, cleanup, err := x.extract(ctx, src, slug)
	defer cleanup()

	if err != nil {
		return slug, []error{err}
	}

	var failed []error
	for _, page := range pages {
		dest := filepath.Join(destDir, strings.ToLower(filepath.Base(page)))
		failed = append(failed, x.render.Render(ctx, page, dest, info)...)
	}

	x.log.Debug("Exploded", slog.String("src", src), slog.Int("pages", len(pages)), slog.Int("failed", len(failed)))

	return slug, failed
}

// Animate turns the pages of src into the frames of destGif.
func (x *Extractor) Animate(ctx context.Context, src, destGif string) error {
	pages, cleanup, err := x.extract(ctx, src, Slug(src))
	defer cleanup()

	if err != nil {
		return err
	}

	if _, err := x.exec.Run(ctx, cmdadapter.AssembleAnimation(pages, destGif)); err != nil {
		return fmt.Errorf("cannot assemble %s: %w", destGif, err)
	}

	return nil
}

// extract writes the pages of src into a new temporary directory. The returned cleanup is always safe to call.
func (x *Extractor) extract(ctx context.Context, src, slug string) ([]string, func(), error) {
	cleanup := func() {}

	dir, err := x.fs.TempDir(x.tempDir, slug+"-")
	if err != nil {
		return nil, cleanup, fmt.Errorf("cannot create temp dir: %w", err)
	}

	pattern := filepath.Join(dir, slug+"-*.png")
	cleanup = func() {
		if _, err := x.fs.RemoveGlob(pattern); err != nil {
			x.log.Error("Cannot remove pages", slog.String("pattern", pattern), slog.Any("error", err))
		}
		if err := x.fs.RemoveAll(dir); err != nil {
			x.log.Error("Cannot remove temp dir", slog.String("dir", dir), slog.Any("error", err))
		}
	}

	if _, err := x.exec.Run(ctx, cmdadapter.ExtractPages(src, dir, slug)); err != nil {
		return nil, cleanup, fmt.Errorf("cannot extract pages of %s: %w", src, err)
	}

	pages, err := x.fs.Glob(pattern)
	if err != nil {
		return nil, cleanup, fmt.Errorf("cannot list pages of %s: %w", src, err)
	}

	if len(pages) == 0 {
		return nil, cleanup, fmt.Errorf("no pages extracted from %s", src)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pageNumber(pages[i]) < pageNumber(pages[j])
	})

	return pages, cleanup, nil
}

// pageNumber reads n from a "<slug>-<n>.png" page name, -1 when there is none.
func pageNumber(page string) int {
	name := strings.TrimSuffix(filepath.Base(page), filepath.Ext(page))

	n, err := strconv.Atoi(name[strings.LastIndex(name, "-")+1:])
	if err != nil {
		return -1
	}

	return n
}
