package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/jgivc/mediaconvert/internal/queue"
	"github.com/jgivc/mediaconvert/internal/service/animation"
	"github.com/jgivc/mediaconvert/internal/service/classify"
	"github.com/jgivc/mediaconvert/internal/service/fileinfo"
	"github.com/jgivc/mediaconvert/internal/service/pages"
	"github.com/jgivc/mediaconvert/internal/service/responsive"
)

type Executor interface {
	Run(ctx context.Context, op cmdadapter.Operation) (string, error)
}

type FSAdapter interface {
	pages.FSAdapter
	animation.FSAdapter

	Discover(root string) ([]entity.SourceEntry, []string, error)
	ReplicateTree(src, dst string, skip func(rel string) bool) error
	MkdirAll(dir string) error
	Copy(src, dst string) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	WriteJSON(path string, v any) error
}

type DocumentRenderer interface {
	Render(name string, source []byte) ([]byte, error)
}

type RunRepository interface {
	Save(ctx context.Context, s *entity.RunSummary) error
}

type Converter struct {
	fs        FSAdapter
	exec      Executor
	inspector *fileinfo.Inspector
	renderer  *responsive.Renderer
	extractor *pages.Extractor
	assembler *animation.Assembler
	docs      DocumentRenderer
	repo      RunRepository
	cfg       *config.ConvertConfig
	log       *slog.Logger
}

func NewConverter(fs FSAdapter, exec Executor, docs DocumentRenderer, repo RunRepository, cfg *config.ConvertConfig, log *slog.Logger) *Converter {
	renderer := responsive.NewRenderer(exec, cfg.Plan, log)

	return &Converter{
		fs:        fs,
		exec:      exec,
		inspector: fileinfo.NewInspector(exec, log),
		renderer:  renderer,
		extractor: pages.NewExtractor(fs, exec, renderer, cfg.TempDir, log),
		assembler: animation.NewAssembler(fs, exec, log),
		docs:      docs,
		repo:      repo,
		cfg:       cfg,
		log:       log.With(slog.String("item", "Converter")),
	}
}

// OutputDir is the sibling directory receiving the conversion of sourceDir.
func (c *Converter) OutputDir(sourceDir string) string {
	sourceDir = filepath.Clean(sourceDir)

	return filepath.Join(filepath.Dir(sourceDir), filepath.Base(sourceDir)+c.cfg.OutputSuffix)
}

// Convert rebuilds the output tree of sourceDir from scratch and writes its manifest.
// Failed units are logged and left out of the manifest; only tree and manifest failures stop the run.
// A relative sourceDir is resolved against the working directory.
func (c *Converter) Convert(ctx context.Context, sourceDir string) (*entity.RunSummary, error) {
	if abs, err := filepath.Abs(sourceDir); err == nil {
		sourceDir = abs
	}
	outDir := c.OutputDir(sourceDir)

	log := c.log.With(slog.String("source_dir", sourceDir))

	summary := &entity.RunSummary{
		RunID:     uuid.NewString(),
		SourceDir: sourceDir,
		OutputDir: outDir,
		StartedAt: time.Now().UTC(),
		Manifest:  entity.Manifest{},
	}

	entries, dirs, err := c.fs.Discover(sourceDir)
	if err != nil {
		log.Error("Cannot discover files", slog.Any("error", err))

		return nil, fmt.Errorf("cannot discover %s: %w", sourceDir, err)
	}

	if err := c.fs.ReplicateTree(sourceDir, outDir, c.isAnimationPath); err != nil {
		log.Error("Cannot create output tree", slog.String("output_dir", outDir), slog.Any("error", err))

		return nil, fmt.Errorf("cannot create output tree %s: %w", outDir, err)
	}

	rest, groups := c.partition(entries)
	log.Info("Start", slog.String("run_id", summary.RunID), slog.Int("dirs", len(dirs)), slog.Int("files", len(rest)), slog.Int("animations", len(groups)))

	fileTasks := make([]queue.Task[entity.UnitResult], 0, len(rest))
	for _, e := range rest {
		e := e
		fileTasks = append(fileTasks, func(ctx context.Context) entity.UnitResult {
			return c.convertFile(ctx, e, outDir)
		})
	}

	groupTasks := make([]queue.Task[entity.UnitResult], 0, len(groups))
	for _, g := range groups {
		g := g
		groupTasks = append(groupTasks, func(ctx context.Context) entity.UnitResult {
			return c.convertGroup(ctx, g, outDir)
		})
	}

	results := queue.Run(ctx, c.cfg.Workers, fileTasks)
	results = append(results, queue.Run(ctx, c.cfg.Workers, groupTasks)...)

	if err := ctx.Err(); err != nil {
		log.Warn("Interrupted", slog.Any("error", err))

		return nil, fmt.Errorf("conversion of %s interrupted: %w", sourceDir, err)
	}

	for _, res := range results {
		summary.Units++
		summary.FailedOperations += len(res.Failed)

		if res.Aborted != nil {
			summary.FailedUnits++
			log.Error("Unit failed", slog.String("source", res.Source), slog.Any("error", res.Aborted))

			continue
		}

		for _, err := range res.Failed {
			log.Warn("Operation failed", slog.String("source", res.Source), slog.Any("error", err))
		}

		if res.Record != nil {
			summary.Manifest = append(summary.Manifest, *res.Record)
		}
	}

	manifestPath := filepath.Join(outDir, c.cfg.ManifestName)
	if err := c.fs.WriteJSON(manifestPath, summary.Manifest); err != nil {
		log.Error("Cannot write manifest", slog.String("path", manifestPath), slog.Any("error", err))

		return nil, fmt.Errorf("%w %s: %w", common.ErrManifestWrite, manifestPath, err)
	}

	summary.FinishedAt = time.Now().UTC()

	if err := c.repo.Save(ctx, summary); err != nil {
		log.Error("Cannot save run", slog.String("run_id", summary.RunID), slog.Any("error", err))
	}

	log.Info("Done",
		slog.String("output_dir", outDir),
		slog.Int("records", len(summary.Manifest)),
		slog.Int("failed_units", summary.FailedUnits),
		slog.Int("failed_operations", summary.FailedOperations),
		slog.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return summary, nil
}

// isAnimationPath reports whether any component of the relative path names an animation directory.
func (c *Converter) isAnimationPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, c.cfg.AnimationPrefix) {
			return true
		}
	}

	return false
}

// partition splits entries into single file units and animation groups, both in discovery order.
func (c *Converter) partition(entries []entity.SourceEntry) ([]entity.SourceEntry, []entity.AnimationGroup) {
	var (
		rest   []entity.SourceEntry
		groups []entity.AnimationGroup
		index  = make(map[string]int)
	)

	for _, e := range entries {
		if classify.Classify(e, c.cfg.AnimationPrefix) != entity.KindAnimationFrame {
			// Nested below an animation directory, nowhere to write it.
			if c.isAnimationPath(e.DirName) {
				c.log.Debug("Skip", slog.String("path", e.Path))

				continue
			}

			rest = append(rest, e)

			continue
		}

		n, ok := index[e.DirName]
		if !ok {
			n = len(groups)
			index[e.DirName] = n
			groups = append(groups, entity.AnimationGroup{
				Path:    filepath.Dir(e.Path),
				RelPath: e.DirName,
			})
		}

		groups[n].Members = append(groups[n].Members, e.Path)
	}

	return rest, groups
}

func (c *Converter) convertFile(ctx context.Context, e entity.SourceEntry, outDir string) entity.UnitResult {
	res := entity.UnitResult{Source: e.Path}
	destDir := filepath.Join(outDir, e.DirName)

	kind := classify.Classify(e, c.cfg.AnimationPrefix)
	switch kind {
	case entity.KindImage, entity.KindPagedDocument, entity.KindTextLike:
	default:
		c.log.Debug("Skip", slog.String("path", e.Path), slog.String("kind", kind.String()))

		return res
	}

	if err := c.fs.MkdirAll(destDir); err != nil {
		res.Aborted = err

		return res
	}

	if kind == entity.KindTextLike {
		return c.convertText(ctx, e, destDir)
	}

	return c.convertImage(ctx, e, destDir)
}

func (c *Converter) convertImage(ctx context.Context, e entity.SourceEntry, destDir string) entity.UnitResult {
	res := entity.UnitResult{Source: e.Path}

	info, err := c.inspector.Inspect(ctx, e.Path)
	if err != nil {
		res.Aborted = fmt.Errorf("cannot identify %s: %w", e.Path, err)

		return res
	}

	route := classify.RouteFor(e, info, c.cfg.AnimationPrefix)
	c.log.Debug("Convert", slog.String("path", e.Path), slog.String("route", route.String()), slog.String("format", info.Format),
		slog.Int("width", info.Width), slog.Int("height", info.Height), slog.Int("layers", info.Layers))

	name := e.Name

	switch route {
	case entity.RouteResponsive:
		res.Failed = c.renderer.Render(ctx, e.Path, filepath.Join(destDir, e.Name), info)

	case entity.RouteRasterForced:
		res.Failed = c.renderer.Render(ctx, e.Path, filepath.Join(destDir, e.Base+c.cfg.RasterExt), info)

	case entity.RouteSinglePage:
		name = info.Format + "-" + e.Base + ".png"
		res.Failed = c.renderer.Render(ctx, e.Path, filepath.Join(destDir, name), info)

	case entity.RouteExplodePages:
		_, res.Failed = c.extractor.Explode(ctx, e.Path, info, destDir)

	case entity.RouteCopyThrough:
		if err := c.fs.Copy(e.Path, filepath.Join(destDir, e.Name)); err != nil {
			res.Failed = append(res.Failed, err)
		}

	case entity.RouteAnimatedPages:
		name = pages.Slug(e.Path) + ".gif"
		if err := c.extractor.Animate(ctx, e.Path, filepath.Join(destDir, name)); err != nil {
			res.Aborted = err

			return res
		}
	}

	res.Record = &entity.FileRecord{Filename: name, Dirname: e.DirName, Metadata: e.Stat}

	return res
}

func (c *Converter) convertText(ctx context.Context, e entity.SourceEntry, destDir string) entity.UnitResult {
	res := entity.UnitResult{Source: e.Path}

	if _, err := c.exec.Run(ctx, cmdadapter.Thumbnail(e.Path, destDir)); err != nil {
		res.Failed = append(res.Failed, fmt.Errorf("cannot make thumbnail of %s: %w", e.Path, err))
	}

	if classify.IsMarkdown(e.Ext) {
		if err := c.renderDocument(e, destDir); err != nil {
			res.Failed = append(res.Failed, err)
		}
	}

	res.Record = &entity.FileRecord{Filename: e.Base, Dirname: e.DirName, Metadata: e.Stat}

	return res
}

func (c *Converter) renderDocument(e entity.SourceEntry, destDir string) error {
	src, err := c.fs.ReadFile(e.Path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", e.Path, err)
	}

	page, err := c.docs.Render(e.Path, src)
	if err != nil {
		return fmt.Errorf("cannot render %s: %w", e.Path, err)
	}

	dest := filepath.Join(destDir, e.Base+".html")
	if err := c.fs.WriteFile(dest, page); err != nil {
		return fmt.Errorf("cannot write %s: %w", dest, err)
	}

	return nil
}

func (c *Converter) convertGroup(ctx context.Context, g entity.AnimationGroup, outDir string) entity.UnitResult {
	res := entity.UnitResult{Source: g.Path}

	dest := filepath.Join(outDir, g.RelPath+".gif")
	if err := c.fs.MkdirAll(filepath.Dir(dest)); err != nil {
		res.Aborted = err

		return res
	}

	rec, err := c.assembler.Assemble(ctx, g, dest)
	if err != nil {
		res.Aborted = err

		return res
	}

	res.Record = &rec

	return res
}
