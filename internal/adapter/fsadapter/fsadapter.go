package fsadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type FSAdapter struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewFSAdapter(log *slog.Logger) *FSAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), log)
}

func NewFSAdapterWithFS(fs afero.Fs, log *slog.Logger) *FSAdapter {
	return &FSAdapter{
		fs:  fs,
		log: log.With(slog.String("item", "FSAdapter")),
	}
}

func (a *FSAdapter) Fs() afero.Fs {
	return a.fs
}

// Discover walks root in lexical order and returns every non-hidden regular file
// and every non-hidden directory (relative to root, root itself excluded).
func (a *FSAdapter) Discover(root string) ([]entity.SourceEntry, []string, error) {
	root = filepath.Clean(root)

	if !a.IsDir(root) {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrNotADirectory, root)
	}

	var (
		files []entity.SourceEntry
		dirs  []string
	)

	err := afero.Walk(a.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path == root {
			return nil
		}

		if isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			dirs = append(dirs, rel)

			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, newSourceEntry(path, rel, info))

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cannot walk %s: %w", root, err)
	}

	return files, dirs, nil
}

func newSourceEntry(path, rel string, info os.FileInfo) entity.SourceEntry {
	name := info.Name()
	ext := filepath.Ext(name)

	dirName := filepath.Dir(rel)
	if dirName == "." {
		dirName = ""
	}

	return entity.SourceEntry{
		Path:       path,
		RelPath:    rel,
		Name:       name,
		Base:       strings.TrimSuffix(name, ext),
		Ext:        strings.ToLower(ext),
		DirName:    dirName,
		ParentName: filepath.Base(filepath.Dir(path)),
		Stat:       entity.NewFileStat(info),
	}
}

// ReplicateTree recreates dst from scratch with the directory skeleton of src.
// Directories for which skip returns true are left out together with their subtrees.
func (a *FSAdapter) ReplicateTree(src, dst string, skip func(rel string) bool) error {
	src = filepath.Clean(src)

	if err := a.fs.RemoveAll(dst); err != nil {
		return fmt.Errorf("cannot remove %s: %w", dst, err)
	}

	if err := a.fs.MkdirAll(dst, dirPerm); err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}

	err := afero.Walk(a.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() || path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if isHidden(info.Name()) || (skip != nil && skip(rel)) {
			return filepath.SkipDir
		}

		return a.fs.MkdirAll(filepath.Join(dst, rel), dirPerm)
	})
	if err != nil {
		return fmt.Errorf("cannot replicate %s into %s: %w", src, dst, err)
	}

	a.log.Debug("Replicated tree", slog.String("src", src), slog.String("dst", dst))

	return nil
}

func (a *FSAdapter) Glob(pattern string) ([]string, error) {
	matches, err := afero.Glob(a.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("cannot glob %s: %w", pattern, err)
	}

	sort.Strings(matches)

	return matches, nil
}

// RemoveGlob deletes every match of pattern and returns how many were removed.
func (a *FSAdapter) RemoveGlob(pattern string) (int, error) {
	matches, err := a.Glob(pattern)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, m := range matches {
		if err := a.fs.RemoveAll(m); err != nil {
			return removed, fmt.Errorf("cannot remove %s: %w", m, err)
		}
		removed++
	}

	return removed, nil
}

// Copy copies a regular file keeping its mode and modification time.
func (a *FSAdapter) Copy(src, dst string) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", src, err)
	}

	in, err := a.fs.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", src, err)
	}
	defer in.Close()

	if err := a.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(dst), err)
	}

	out, err := a.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return fmt.Errorf("cannot copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", dst, err)
	}

	if err := a.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		a.log.Warn("Cannot keep modification time", slog.String("path", dst), slog.Any("error", err))
	}

	return nil
}

func (a *FSAdapter) MkdirAll(dir string) error {
	return a.fs.MkdirAll(dir, dirPerm)
}

func (a *FSAdapter) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

func (a *FSAdapter) TempDir(dir, prefix string) (string, error) {
	return afero.TempDir(a.fs, dir, prefix)
}

func (a *FSAdapter) Stat(path string) (entity.FileStat, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return entity.FileStat{}, err
	}

	return entity.NewFileStat(info), nil
}

func (a *FSAdapter) IsDir(path string) bool {
	ok, err := afero.IsDir(a.fs, path)

	return err == nil && ok
}

func (a *FSAdapter) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)

	return err == nil && ok
}

// ListDirs returns the names of the immediate subdirectories of root, sorted.
func (a *FSAdapter) ListDirs(root string) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

// ListFiles returns the names of the immediate non-hidden regular files of dir, sorted.
func (a *FSAdapter) ListFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.Mode().IsRegular() && !isHidden(entry.Name()) {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

func (a *FSAdapter) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *FSAdapter) WriteFile(path string, data []byte) error {
	return afero.WriteFile(a.fs, path, data, filePerm)
}

// WriteJSON writes v as two-space indented JSON.
func (a *FSAdapter) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal %s: %w", path, err)
	}

	if err := a.WriteFile(path, data); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	return nil
}

func (a *FSAdapter) ReadJSON(path string, v any) error {
	data, err := a.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot unmarshal %s: %w", path, err)
	}

	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
