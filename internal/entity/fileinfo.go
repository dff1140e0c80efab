package entity

import "strings"

type Orientation string

const (
	OrientationHorizontal Orientation = "HORIZONTAL"
	OrientationVertical   Orientation = "VERTICAL"

	FormatVector = "ai"
)

func OrientationOf(width, height int) Orientation {
	if width >= height {
		return OrientationHorizontal
	}

	return OrientationVertical
}

// FileInfo describes an image-like file as reported by the rendering engine.
type FileInfo struct {
	Format string
	Width  int
	Height int
	Layers int
}

func (i FileInfo) Orientation() Orientation {
	return OrientationOf(i.Width, i.Height)
}

func (i FileInfo) IsVector() bool {
	return strings.EqualFold(i.Format, FormatVector)
}
