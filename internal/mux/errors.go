package mux

import (
	"errors"
	"fmt"
	"strings"

	"github.com/timvw/mukduk/internal/runner"
)

// ErrSwitchUnsupported is returned when a backend cannot move the current
// client to another session from inside a session.
var ErrSwitchUnsupported = errors.New("switching sessions from inside a session is not supported")

// CommandError reports a failed external multiplexer command.
type CommandError struct {
	Backend string
	// Step names the operation, e.g. "has-session" or "create-detached".
	Step    string
	Session string
	Command runner.Command
	Result  runner.Result
	// Err is set when the command could not run at all.
	Err error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Backend, e.Step)
	if e.Session != "" {
		fmt.Fprintf(&b, " for session %q", e.Session)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
		return b.String()
	}
	fmt.Fprintf(&b, ": exit status %d", e.Result.ExitCode)
	if msg := strings.TrimSpace(e.Result.Stderr); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError reports list output that does not have the expected shape.
type ParseError struct {
	Backend string
	Line    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected session list line %q", e.Backend, e.Line)
}
