package common

import "fmt"

var (
	ErrCommandFailed       = fmt.Errorf("command failed")
	ErrEmptyReport         = fmt.Errorf("empty identify report")
	ErrUnparsableReport    = fmt.Errorf("unparsable identify report")
	ErrNoFrames            = fmt.Errorf("animation group has no frames")
	ErrNotADirectory       = fmt.Errorf("not a directory")
	ErrBatchAlreadyRunning = fmt.Errorf("batch process has already started")
	ErrManifestWrite       = fmt.Errorf("cannot write manifest")
)
