package mdadapter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

//go:embed page.html
var defaultTemplate string

type Page struct {
	Title string
	Body  template.HTML
}

type meta struct {
	Title string `yaml:"title"`
}

// Renderer turns markdown documents into standalone HTML pages.
type Renderer struct {
	md  goldmark.Markdown
	tpl *template.Template
}

// NewRenderer builds a renderer using cfg.PageTemplate as the page layout, or the built-in one when empty.
func NewRenderer(cfg *config.ConvertConfig) (*Renderer, error) {
	src := defaultTemplate
	if cfg.PageTemplate != "" {
		data, err := os.ReadFile(cfg.PageTemplate)
		if err != nil {
			return nil, fmt.Errorf("cannot read template: %w", err)
		}

		src = string(data)
	}

	tpl, err := template.New("page").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
			NewImagesExtension(cfg.Plan, cfg.RasterExt),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Renderer{md: md, tpl: tpl}, nil
}

// Render converts the markdown source of the document called name. The page title comes from the
// front matter, the document base name otherwise.
func (r *Renderer) Render(name string, source []byte) ([]byte, error) {
	ctx := parser.NewContext()

	var body bytes.Buffer
	if err := r.md.Convert(source, &body, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("cannot convert %s: %w", name, err)
	}

	page := Page{
		Title: strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Body:  template.HTML(body.String()),
	}

	if fm := frontmatter.Get(ctx); fm != nil {
		var m meta
		if err := fm.Decode(&m); err != nil {
			return nil, fmt.Errorf("cannot decode front matter of %s: %w", name, err)
		}

		if m.Title != "" {
			page.Title = m.Title
		}
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("cannot execute template: %w", err)
	}

	return buf.Bytes(), nil
}
