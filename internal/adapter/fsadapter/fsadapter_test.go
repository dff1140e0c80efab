package fsadapter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, files map[string]string) *FSAdapter {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	return NewFSAdapterWithFS(fs, log)
}

func TestDiscover(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/src/photo.JPG":         "x",
		"/src/b/notes.md":        "# notes",
		"/src/b/gif-run/a.png":   "a",
		"/src/.git/config":       "hidden dir",
		"/src/.DS_Store":         "hidden file",
		"/src/a/deep/layout.pdf": "pdf",
	})

	files, dirs, err := a.Discover("/src")
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	require.Equal(t, []string{"a/deep/layout.pdf", "b/gif-run/a.png", "b/notes.md", "photo.JPG"}, rels)
	require.Equal(t, []string{"a", "a/deep", "b", "b/gif-run"}, dirs)

	photo := files[3]
	require.Equal(t, "/src/photo.JPG", photo.Path)
	require.Equal(t, "photo", photo.Base)
	require.Equal(t, ".jpg", photo.Ext)
	require.Equal(t, "", photo.DirName)
	require.Equal(t, "src", photo.ParentName)
	require.Equal(t, int64(1), photo.Stat.Size)

	frame := files[1]
	require.Equal(t, "b/gif-run", frame.DirName)
	require.Equal(t, "gif-run", frame.ParentName)
}

func TestDiscoverNotADirectory(t *testing.T) {
	a := newTestAdapter(t, map[string]string{"/src/file.txt": "x"})

	_, _, err := a.Discover("/src/file.txt")
	require.ErrorIs(t, err, common.ErrNotADirectory)

	_, _, err = a.Discover("/missing")
	require.ErrorIs(t, err, common.ErrNotADirectory)
}

func TestReplicateTree(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/src/a/x.jpg":              "x",
		"/src/a/gif-loop/1.png":     "1",
		"/src/a/gif-loop/sub/2.png": "2",
		"/src/b/c/y.jpg":            "y",
		"/src/.cache/z":             "z",
		"/src-converted/stale.jpg":  "old",
	})

	skip := func(rel string) bool { return strings.HasPrefix(filepath.Base(rel), "gif") }
	require.NoError(t, a.ReplicateTree("/src", "/src-converted", skip))

	require.True(t, a.IsDir("/src-converted/a"))
	require.True(t, a.IsDir("/src-converted/b/c"))
	require.False(t, a.Exists("/src-converted/a/gif-loop"))
	require.False(t, a.Exists("/src-converted/a/gif-loop/sub"))
	require.False(t, a.Exists("/src-converted/.cache"))
	require.False(t, a.Exists("/src-converted/stale.jpg"))
	require.False(t, a.Exists("/src-converted/a/x.jpg"))
}

func TestGlobAndRemoveGlob(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/tmp/p/ai-deck-1.png": "1",
		"/tmp/p/ai-deck-0.png": "0",
		"/tmp/p/other.png":     "o",
	})

	matches, err := a.Glob("/tmp/p/ai-deck-*.png")
	require.NoError(t, err)
	require.Equal(t, []string{"/tmp/p/ai-deck-0.png", "/tmp/p/ai-deck-1.png"}, matches)

	n, err := a.RemoveGlob("/tmp/p/ai-deck-*.png")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	matches, err = a.Glob("/tmp/p/ai-deck-*.png")
	require.NoError(t, err)
	require.Empty(t, matches)
	require.True(t, a.Exists("/tmp/p/other.png"))
}

func TestCopy(t *testing.T) {
	a := newTestAdapter(t, map[string]string{"/src/doc.pdf": "%PDF-1.7 pages"})

	mtime := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.Fs().Chtimes("/src/doc.pdf", mtime, mtime))

	require.NoError(t, a.Copy("/src/doc.pdf", "/out/nested/doc.pdf"))

	data, err := a.ReadFile("/out/nested/doc.pdf")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7 pages", string(data))

	st, err := a.Stat("/out/nested/doc.pdf")
	require.NoError(t, err)
	require.True(t, st.ModTime.Equal(mtime))

	require.Error(t, a.Copy("/src/missing.pdf", "/out/missing.pdf"))
}

func TestJSON(t *testing.T) {
	a := newTestAdapter(t, nil)

	type rec struct {
		Filename string `json:"filename"`
	}

	require.NoError(t, a.WriteJSON("/out/data.json", []rec{{Filename: "a.jpg"}}))

	data, err := a.ReadFile("/out/data.json")
	require.NoError(t, err)
	require.Equal(t, "[\n  {\n    \"filename\": \"a.jpg\"\n  }\n]", string(data))

	var got []rec
	require.NoError(t, a.ReadJSON("/out/data.json", &got))
	require.Equal(t, "a.jpg", got[0].Filename)

	require.Error(t, a.ReadJSON("/out/none.json", &got))
}

func TestListing(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/root/b/x":     "x",
		"/root/a/y":     "y",
		"/root/file":    "f",
		"/root/.hidden": "h",
	})

	dirs, err := a.ListDirs("/root")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, dirs)

	files, err := a.ListFiles("/root")
	require.NoError(t, err)
	require.Equal(t, []string{"file"}, files)

	_, err = a.ListDirs("/nope")
	require.True(t, os.IsNotExist(err))
}
