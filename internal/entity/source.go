package entity

import (
	"io/fs"
	"time"
)

// FileStat is the file statistics stored with every manifest record.
type FileStat struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	ModTime time.Time `json:"mtime"`
	MtimeMs int64     `json:"mtimeMs"`
}

func NewFileStat(info fs.FileInfo) FileStat {
	mt := info.ModTime().UTC()

	return FileStat{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode().String(),
		ModTime: mt,
		MtimeMs: mt.UnixMilli(),
	}
}

// SourceEntry is a file discovered under the source root.
type SourceEntry struct {
	Path       string // Absolute path
	RelPath    string // Path relative to the source root
	Name       string // File name with extension
	Base       string // File name without extension
	Ext        string // Lower-cased extension with the dot
	DirName    string // Containing directory relative to the source root, "" for the root itself
	ParentName string // Base name of the containing directory
	Stat       FileStat
}
