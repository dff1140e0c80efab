package cmdadapter

import (
	"fmt"
	"strings"
)

type OpKind int

const (
	OpIdentify OpKind = iota
	OpResize
	OpExtractPages
	OpAssembleAnimation
	OpThumbnail
)

var opNames = [...]string{"identify", "resize", "extract-pages", "assemble-animation", "thumbnail"}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return "unknown"
	}

	return opNames[k]
}

// Operation is a request for one rendering engine call. Only the executor turns it into a process.
type Operation struct {
	Kind     OpKind
	Source   string
	Frames   []string
	Geometry string // Resize geometry, empty keeps the native size
	Dest     string // Output file, or output directory for extract-pages and thumbnail
	Prefix   string // Page file prefix for extract-pages
}

func Identify(src string) Operation {
	return Operation{Kind: OpIdentify, Source: src}
}

func Resize(src, geometry, dest string) Operation {
	return Operation{Kind: OpResize, Source: src, Geometry: geometry, Dest: dest}
}

func ExtractPages(src, dir, prefix string) Operation {
	return Operation{Kind: OpExtractPages, Source: src, Dest: dir, Prefix: prefix}
}

func AssembleAnimation(frames []string, dest string) Operation {
	return Operation{Kind: OpAssembleAnimation, Frames: frames, Dest: dest}
}

func Thumbnail(src, dir string) Operation {
	return Operation{Kind: OpThumbnail, Source: src, Dest: dir}
}

func (o Operation) String() string {
	var b strings.Builder
	b.WriteString(o.Kind.String())

	if o.Source != "" {
		fmt.Fprintf(&b, " src=%q", o.Source)
	}
	if len(o.Frames) > 0 {
		fmt.Fprintf(&b, " frames=%d", len(o.Frames))
	}
	if o.Geometry != "" {
		fmt.Fprintf(&b, " geometry=%s", o.Geometry)
	}
	if o.Dest != "" {
		fmt.Fprintf(&b, " dest=%q", o.Dest)
	}

	return b.String()
}
