package mdadapter

import (
	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type ImagesExtension struct {
	plan      config.PlanConfig
	rasterExt string
}

func NewImagesExtension(plan config.PlanConfig, rasterExt string) goldmark.Extender {
	return &ImagesExtension{plan: plan, rasterExt: rasterExt}
}

func (e *ImagesExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewImageDirectiveParser(), 199),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewImageDirectiveRenderer(e.plan, e.rasterExt), 199),
		),
	)
}
