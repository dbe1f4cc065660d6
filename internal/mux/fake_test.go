package mux

import (
	"context"
	"strings"

	"github.com/timvw/mukduk/internal/runner"
)

// fakeRunner implements runner.Runner for testing. It records every command
// and answers from handler; unhandled commands succeed with empty output.
type fakeRunner struct {
	calls   []runner.Command
	handler func(cmd runner.Command) (runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	f.calls = append(f.calls, cmd)
	if f.handler != nil {
		return f.handler(cmd)
	}
	return runner.Result{}, nil
}

// subcommands returns the first argument of every recorded call.
func (f *fakeRunner) subcommands() []string {
	subs := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		if len(c.Args) == 0 {
			subs = append(subs, "")
			continue
		}
		subs = append(subs, c.Args[0])
	}
	return subs
}

// count returns how many recorded calls used the given subcommand.
func (f *fakeRunner) count(sub string) int {
	n := 0
	for _, s := range f.subcommands() {
		if s == sub {
			n++
		}
	}
	return n
}

func ok(stdout string) (runner.Result, error) {
	return runner.Result{Stdout: stdout}, nil
}

func exit(code int, stderr string) (runner.Result, error) {
	return runner.Result{ExitCode: code, Stderr: stderr}, nil
}

// tmuxSessions answers has-session from a fixed set of existing sessions.
func tmuxSessions(existing ...string) func(runner.Command) (runner.Result, error) {
	set := map[string]bool{}
	for _, s := range existing {
		set[s] = true
	}
	return func(cmd runner.Command) (runner.Result, error) {
		if cmd.Args[0] == "has-session" {
			if set[strings.TrimPrefix(cmd.Args[2], "=")] {
				return ok("")
			}
			return exit(1, "can't find session: "+cmd.Args[2])
		}
		return ok("")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
