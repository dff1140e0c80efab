package entity

import "strings"

type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPagedDocument
	KindTextLike
	KindVideo
	KindAnimationFrame
)

func (k Kind) String() string {
	return [...]string{"Unsupported", "Image", "PagedDocument", "TextLike", "Video", "AnimationFrame"}[k]
}

// Route selects how an image-family file is converted once its FileInfo is known.
type Route int

const (
	RouteResponsive Route = iota
	RouteRasterForced
	RouteSinglePage
	RouteExplodePages
	RouteCopyThrough
	RouteAnimatedPages
)

func (r Route) String() string {
	return [...]string{"Responsive", "RasterForced", "SinglePage", "ExplodePages", "CopyThrough", "AnimatedPages"}[r]
}

var rasterForcedExts = map[string]struct{}{".psd": {}, ".tif": {}}

// IsRasterForced reports whether files with ext are readable by the engine but not by browsers,
// so their variants are written in a web raster format instead.
func IsRasterForced(ext string) bool {
	_, ok := rasterForcedExts[strings.ToLower(ext)]

	return ok
}
