package mdadapter

import (
	"github.com/yuin/goldmark/ast"
)

var KindImageDirective = ast.NewNodeKind("ImageDirective")

// ImageDirective is an image reference written as [[photo.jpg]] or [[photo.jpg|Alt text]].
type ImageDirective struct {
	ast.BaseInline
	Filename string
	Alt      string
}

func (n *ImageDirective) Kind() ast.NodeKind {
	return KindImageDirective
}

func (n *ImageDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Filename": n.Filename,
		"Alt":      n.Alt,
	}, nil)
}
