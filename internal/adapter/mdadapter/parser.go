package mdadapter

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	startSeq = []byte{'[', '['}
	endSeq   = []byte{']', ']'}
	altSeq   = []byte{'|'}
)

/*
 * [[photo.jpg]]
 * [[photo.jpg|Alt text]]
 */
type ImageDirectiveParser struct{}

func NewImageDirectiveParser() parser.InlineParser {
	return &ImageDirectiveParser{}
}

func (s *ImageDirectiveParser) Trigger() []byte {
	return startSeq
}

func (s *ImageDirectiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	b, _ := block.PeekLine()
	if !bytes.HasPrefix(b, startSeq) {
		return nil
	}

	end := bytes.Index(b, endSeq)
	if end < 0 {
		return nil
	}

	line := b[len(startSeq):end]
	name, alt, _ := bytes.Cut(line, altSeq)

	name = bytes.TrimSpace(name)
	if len(name) == 0 || bytes.IndexByte(name, '.') < 1 {
		return nil
	}

	block.Advance(end + len(endSeq))

	return &ImageDirective{
		Filename: string(name),
		Alt:      string(bytes.TrimSpace(alt)),
	}
}
