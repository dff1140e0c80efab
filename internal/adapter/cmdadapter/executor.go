package cmdadapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/config"
)

type Executor struct {
	runner Runner
	cfg    *config.EngineConfig
	log    *slog.Logger
}

func NewExecutor(cfg *config.EngineConfig, log *slog.Logger) *Executor {
	return NewExecutorWithRunner(NewExecRunner(), cfg, log)
}

func NewExecutorWithRunner(runner Runner, cfg *config.EngineConfig, log *slog.Logger) *Executor {
	return &Executor{
		runner: runner,
		cfg:    cfg,
		log:    log.With(slog.String("item", "Executor")),
	}
}

// Run executes op and returns its standard output. A failed operation has empty output
// and an error wrapping common.ErrCommandFailed.
func (e *Executor) Run(ctx context.Context, op Operation) (string, error) {
	name, args, err := e.Lower(op)
	if err != nil {
		e.log.Error("Cannot build command", slog.String("op", op.String()), slog.Any("error", err))

		return "", fmt.Errorf("%w: %s: %w", common.ErrCommandFailed, op.Kind, err)
	}

	cmdline := CommandLine(name, args)
	e.log.Info("Execute", slog.String("cmd", cmdline))

	out, err := e.runner.Run(ctx, name, args...)
	if err != nil {
		e.log.Error("Cannot execute", slog.String("cmd", cmdline), slog.Any("error", err))

		return "", fmt.Errorf("%w: %s: %w", common.ErrCommandFailed, cmdline, err)
	}

	return string(out), nil
}

// Lower turns op into a binary name and argument vector.
func (e *Executor) Lower(op Operation) (string, []string, error) {
	switch op.Kind {
	case OpIdentify:
		if op.Source == "" {
			return "", nil, fmt.Errorf("identify requires a source")
		}

		return e.cfg.MagickBin, []string{"identify", op.Source}, nil

	case OpResize:
		if op.Source == "" || op.Dest == "" {
			return "", nil, fmt.Errorf("resize requires source and destination")
		}

		args := []string{"-flatten"}
		if op.Geometry != "" {
			args = append(args, "-resize", op.Geometry)
		}

		return e.cfg.ConvertBin, append(args, op.Source, op.Dest), nil

	case OpExtractPages:
		if op.Source == "" || op.Dest == "" || op.Prefix == "" {
			return "", nil, fmt.Errorf("extract-pages requires source, directory and prefix")
		}

		return e.cfg.ConvertBin, []string{
			"-density", strconv.Itoa(e.cfg.Density),
			op.Source,
			filepath.Join(op.Dest, op.Prefix) + "-%0d.png",
		}, nil

	case OpAssembleAnimation:
		if len(op.Frames) == 0 || op.Dest == "" {
			return "", nil, fmt.Errorf("assemble-animation requires frames and destination")
		}

		args := []string{
			"-delay", strconv.Itoa(e.cfg.AnimationDelay),
			"-loop", "0",
			"-resize", strconv.Itoa(e.cfg.AnimationWidth) + "x",
		}
		args = append(args, op.Frames...)

		return e.cfg.ConvertBin, append(args, op.Dest), nil

	case OpThumbnail:
		if op.Source == "" || op.Dest == "" {
			return "", nil, fmt.Errorf("thumbnail requires source and directory")
		}

		return e.cfg.ThumbnailBin, []string{"-t", "-s", e.cfg.ThumbnailSize, "-o", op.Dest, op.Source}, nil
	}

	return "", nil, fmt.Errorf("unknown operation kind %d", op.Kind)
}

// CommandLine renders a command for logs, quoting arguments that need it.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)

	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`*?[]") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}

	return strings.Join(parts, " ")
}
