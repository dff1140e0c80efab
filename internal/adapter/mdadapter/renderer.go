package mdadapter

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type ImageDirectiveRenderer struct {
	plan      config.PlanConfig
	rasterExt string
}

func NewImageDirectiveRenderer(plan config.PlanConfig, rasterExt string) renderer.NodeRenderer {
	return &ImageDirectiveRenderer{plan: plan, rasterExt: rasterExt}
}

func (r *ImageDirectiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindImageDirective, r.renderImageDirective)
}

func (r *ImageDirectiveRenderer) renderImageDirective(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	directive, ok := n.(*ImageDirective)
	if !ok {
		return ast.WalkStop, fmt.Errorf("unexpected node %T, expected *ImageDirective", n)
	}

	_, _ = w.WriteString(r.imgTag(directive))

	return ast.WalkContinue, nil
}

// imgTag points at the responsive variants of the image. Widths are the planned caps since
// the document does not know the real image size.
func (r *ImageDirectiveRenderer) imgTag(d *ImageDirective) string {
	name := d.Filename
	if ext := filepath.Ext(name); entity.IsRasterForced(ext) && r.rasterExt != "" {
		name = strings.TrimSuffix(name, ext) + r.rasterExt
	}

	widths := map[string]int{
		entity.SizeSmall:  r.plan.SmallSize,
		entity.SizeNormal: r.plan.MaxWidth / 2,
		entity.SizeDouble: r.plan.MaxWidth,
	}

	var srcset []string
	for _, label := range entity.SizeLabels {
		srcset = append(srcset, fmt.Sprintf("%s %dw", entity.VariantName(name, label), widths[label]))
	}

	alt := d.Alt
	if alt == "" {
		alt = strings.TrimSuffix(filepath.Base(d.Filename), filepath.Ext(d.Filename))
	}

	return fmt.Sprintf(`<img src="%s" srcset="%s" alt="%s" />`,
		template.HTMLEscapeString(entity.VariantName(name, entity.SizeNormal)),
		template.HTMLEscapeString(strings.Join(srcset, ", ")),
		template.HTMLEscapeString(alt),
	)
}
