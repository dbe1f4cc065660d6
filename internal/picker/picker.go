// Package picker lets the user choose among names interactively, through
// the external fzf filter or a built-in terminal list.
package picker

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/timvw/mukduk/internal/logger"
	"github.com/timvw/mukduk/internal/runner"
)

// ErrNoTerminal is returned when the built-in picker has no terminal to draw on.
var ErrNoTerminal = runner.ErrNoTerminal

// Picker chooses from a list of names. An empty result with a nil error
// means the user cancelled.
type Picker interface {
	Pick(ctx context.Context, items []string) (string, error)
	PickMulti(ctx context.Context, items []string) ([]string, error)
}

// Picker modes accepted by New.
const (
	ModeAuto    = "auto"
	ModeFzf     = "fzf"
	ModeBuiltin = "builtin"
)

// Options configures New.
type Options struct {
	Mode    string
	FzfArgs []string
	Theme   string
	Runner  runner.Runner
	// LookPath finds fzf for ModeAuto. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// New returns the picker for opts.Mode. ModeAuto uses fzf when it is on
// PATH and the built-in list otherwise.
func New(opts Options) (Picker, error) {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	switch opts.Mode {
	case ModeFzf:
		return &Fzf{Runner: opts.Runner, Args: opts.FzfArgs}, nil
	case ModeBuiltin:
		return &TUI{Theme: ThemeByName(opts.Theme)}, nil
	case ModeAuto, "":
		if _, err := lookPath("fzf"); err == nil {
			return &Fzf{Runner: opts.Runner, Args: opts.FzfArgs}, nil
		}
		logger.Component("picker").Debug("fzf not found on PATH, using built-in picker")
		return &TUI{Theme: ThemeByName(opts.Theme)}, nil
	default:
		return nil, fmt.Errorf("unknown picker: %q (supported: auto, fzf, builtin)", opts.Mode)
	}
}
