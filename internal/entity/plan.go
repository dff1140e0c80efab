package entity

import (
	"path/filepath"
	"strings"
)

const (
	SizeSmall  = "0x"
	SizeNormal = "1x"
	SizeDouble = "2x"
)

// SizeLabels is the fixed order in which responsive variants are produced.
var SizeLabels = []string{SizeSmall, SizeNormal, SizeDouble}

type ResizeQuery struct {
	Label    string
	Size     int
	Geometry string
}

type PlannedResize struct {
	ResizeQuery
	Dest string
}

// ConversionPlan is the ordered list of resizes for one source file.
type ConversionPlan struct {
	Source  string
	Resizes []PlannedResize
}

// VariantName names the label variant of a file: dir/photo.JPG becomes dir/photo-1x.jpg.
func VariantName(path, label string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "-" + label + strings.ToLower(ext)
}
