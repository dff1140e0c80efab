package classify

import (
	"strings"

	"github.com/jgivc/mediaconvert/internal/entity"
)

var (
	pagedExts = map[string]struct{}{".ai": {}, ".pdf": {}}
	imageExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".tif": {}, ".psd": {}}
	videoExts = map[string]struct{}{".mov": {}, ".mpeg4": {}, ".mp4": {}, ".mp3": {}}
	textExts  = map[string]struct{}{".txt": {}, ".md": {}, ".markdown": {}, ".html": {}, ".csv": {}, ".xlsx": {}}
)

// Classify tells what kind of unit entry is. Files inside a directory named with prefix are animation frames
// whatever their extension. The source root itself is never an animation directory.
func Classify(entry entity.SourceEntry, prefix string) entity.Kind {
	if prefix != "" && entry.DirName != "" && strings.HasPrefix(entry.ParentName, prefix) {
		return entity.KindAnimationFrame
	}

	switch {
	case has(pagedExts, entry.Ext):
		return entity.KindPagedDocument
	case has(imageExts, entry.Ext):
		return entity.KindImage
	case has(videoExts, entry.Ext):
		return entity.KindVideo
	case has(textExts, entry.Ext):
		return entity.KindTextLike
	}

	return entity.KindUnsupported
}

func RouteFor(entry entity.SourceEntry, info entity.FileInfo, prefix string) entity.Route {
	if has(pagedExts, entry.Ext) {
		switch {
		case prefix != "" && strings.HasPrefix(entry.Base, prefix):
			return entity.RouteAnimatedPages
		case info.Layers > 1 && entry.Ext == ".ai":
			return entity.RouteExplodePages
		case info.Layers > 1:
			return entity.RouteCopyThrough
		default:
			return entity.RouteSinglePage
		}
	}

	if entity.IsRasterForced(entry.Ext) {
		return entity.RouteRasterForced
	}

	return entity.RouteResponsive
}

func IsImageFamily(ext string) bool {
	return has(imageExts, ext) || has(pagedExts, ext)
}

func IsMarkdown(ext string) bool {
	return ext == ".md" || ext == ".markdown"
}

func has(set map[string]struct{}, ext string) bool {
	_, ok := set[strings.ToLower(ext)]

	return ok
}
