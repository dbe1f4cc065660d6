// Package runner runs external programs (tmux, zellij, fzf) and reports their
// exit status and output. Every subprocess in mukduk goes through a Runner so
// that callers can be tested with a fake.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/timvw/mukduk/internal/logger"
)

// ErrNoTerminal is returned when an attached command is run without a terminal on stdin.
var ErrNoTerminal = errors.New("stdin is not a terminal")

// Command describes one external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Stdin is written to the program's standard input, which is then closed.
	Stdin string
	// Attach connects stdin, stdout and stderr to the user's terminal.
	// Nothing is captured.
	Attach bool
	// TerminalStderr leaves stderr on the user's terminal while stdout is
	// captured. Interactive filters such as fzf draw their UI on stderr.
	TerminalStderr bool
}

// String returns the command line, for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a program that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the program exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs a command and waits for it to exit.
//
// A non-nil error means the program could not be run at all (not found, not
// executable, no terminal). A program that ran and exited non-zero returns a
// nil error and a Result with a non-zero ExitCode.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs commands as real subprocesses.
type Exec struct {
	// IsTerminal reports whether stdin is a terminal. Defaults to an isatty check.
	IsTerminal func() bool
}

// NewExec creates a subprocess runner.
func NewExec() *Exec {
	return &Exec{}
}

// Run executes cmd and blocks until it exits. There is no timeout.
func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	log := logger.Component("runner")

	if cmd.Attach && !e.stdinIsTerminal() {
		return Result{}, fmt.Errorf("%s: %w", cmd, ErrNoTerminal)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	switch {
	case cmd.Attach:
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	default:
		if cmd.Stdin != "" {
			c.Stdin = strings.NewReader(cmd.Stdin)
		}
		c.Stdout = &stdout
		if cmd.TerminalStderr {
			c.Stderr = os.Stderr
		} else {
			c.Stderr = &stderr
		}
	}

	log.Debug("running", "cmd", cmd.String(), "dir", cmd.Dir, "attach", cmd.Attach)

	err := c.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			log.Debug("command failed", "cmd", cmd.String(), "exit", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
			return res, nil
		}
		return res, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		log.Info("command output", "cmd", cmd.String(), "stdout", out)
	}
	return res, nil
}

func (e *Exec) stdinIsTerminal() bool {
	if e.IsTerminal != nil {
		return e.IsTerminal()
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
