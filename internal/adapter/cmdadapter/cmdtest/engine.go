// Package cmdtest provides an in-memory rendering engine for tests.
package cmdtest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/spf13/afero"
)

// Engine executes operations against an afero filesystem instead of spawning processes.
// Outputs are small text files describing the operation that produced them.
type Engine struct {
	fs afero.Fs

	mu      sync.Mutex
	reports map[string]string
	pages   map[string]int
	fail    map[string]bool
	ops     []cmdadapter.Operation
}

func NewEngine(fs afero.Fs) *Engine {
	return &Engine{
		fs:      fs,
		reports: make(map[string]string),
		pages:   make(map[string]int),
		fail:    make(map[string]bool),
	}
}

// SetImage registers the identify report of path: one line per layer.
func (e *Engine) SetImage(path, format string, width, height, layers int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var lines []string
	for n := 0; n < layers; n++ {
		name := path
		if layers > 1 {
			name = fmt.Sprintf("%s[%d]", path, n)
		}
		lines = append(lines, fmt.Sprintf("%s %s %dx%d %dx%d+0+0 8-bit sRGB 1KB 0.000u 0:00.000", name, format, width, height, width, height))
	}

	e.reports[path] = strings.Join(lines, "\n") + "\n"
	e.pages[path] = layers
}

// SetReport registers a raw identify report for path.
func (e *Engine) SetReport(path, report string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reports[path] = report
}

// Fail makes every operation writing dest fail.
func (e *Engine) Fail(dest string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fail[dest] = true
}

func (e *Engine) Ops() []cmdadapter.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]cmdadapter.Operation(nil), e.ops...)
}

func (e *Engine) OpsOf(kind cmdadapter.OpKind) []cmdadapter.Operation {
	var res []cmdadapter.Operation
	for _, op := range e.Ops() {
		if op.Kind == kind {
			res = append(res, op)
		}
	}

	return res
}

func (e *Engine) Run(_ context.Context, op cmdadapter.Operation) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ops = append(e.ops, op)

	if e.fail[op.Dest] || e.fail[op.Source] {
		return "", fmt.Errorf("%w: %s", common.ErrCommandFailed, op)
	}

	switch op.Kind {
	case cmdadapter.OpIdentify:
		report, ok := e.reports[op.Source]
		if !ok {
			return "", fmt.Errorf("%w: %s: no such image", common.ErrCommandFailed, op.Source)
		}

		return report, nil

	case cmdadapter.OpResize:
		return "", e.write(op.Dest, fmt.Sprintf("resize %s %s", op.Geometry, op.Source))

	case cmdadapter.OpExtractPages:
		n := e.pages[op.Source]
		if n < 1 {
			n = 1
		}

		for i := 0; i < n; i++ {
			page := filepath.Join(op.Dest, fmt.Sprintf("%s-%d.png", op.Prefix, i))
			if err := e.write(page, fmt.Sprintf("page %d of %s", i, op.Source)); err != nil {
				return "", err
			}
		}

		return "", nil

	case cmdadapter.OpAssembleAnimation:
		return "", e.write(op.Dest, "gif "+strings.Join(op.Frames, ","))

	case cmdadapter.OpThumbnail:
		return "", e.write(filepath.Join(op.Dest, filepath.Base(op.Source)+".png"), "thumbnail "+op.Source)
	}

	return "", fmt.Errorf("%w: unknown operation %s", common.ErrCommandFailed, op)
}

func (e *Engine) write(path, content string) error {
	if ok, _ := afero.DirExists(e.fs, filepath.Dir(path)); !ok {
		return fmt.Errorf("%w: %s: no such directory", common.ErrCommandFailed, filepath.Dir(path))
	}

	return afero.WriteFile(e.fs, path, []byte(content), 0o644)
}
