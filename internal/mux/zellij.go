package mux

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/timvw/mukduk/internal/model"
	"github.com/timvw/mukduk/internal/runner"
)

// ZellijEnvMarker is set by zellij in every process running inside a session.
const ZellijEnvMarker = "ZELLIJ"

// Zellij implements the Multiplexer interface for zellij.
//
// zellij has no has-session command and its CLI cannot move a client to
// another session, so existence is checked against list-sessions and Open
// from inside a session stops after making sure the target exists.
type Zellij struct {
	cmd    commander
	inside bool
	home   string
}

// NewZellij creates a zellij backend that runs zellij through r.
func NewZellij(r runner.Runner, opts Options) *Zellij {
	return &Zellij{
		cmd:    newCommander("zellij", r, opts),
		inside: opts.Inside,
		home:   opts.Home,
	}
}

// Name returns "zellij".
func (z *Zellij) Name() string {
	return "zellij"
}

// Open attaches to the project's session, creating it when missing.
//
// Outside zellij, "attach --create" run in the project directory creates or
// re-enters the session. Inside zellij the session is created in the
// background if needed and ErrSwitchUnsupported is returned.
func (z *Zellij) Open(ctx context.Context, p model.Project) (err error) {
	ctx, span := z.cmd.startSpan(ctx, "open", p.Name)
	outcome := ""
	defer func() { z.cmd.finish(ctx, span, "open", outcome, err) }()

	outcome, err = z.open(ctx, p)
	return err
}

func (z *Zellij) open(ctx context.Context, p model.Project) (string, error) {
	log := z.cmd.log.With("session", p.Name, "path", p.Path)

	if !z.inside {
		log.Info("not inside zellij, creating or attaching")
		return outcomeAttached, z.createOrAttach(ctx, p)
	}

	exists, err := z.hasSession(ctx, p.Name)
	if err != nil {
		return "", err
	}
	if !exists {
		log.Info("session does not exist, creating in background")
		if err := z.createBackground(ctx, p); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("zellij session %q is ready but cannot be switched to from inside zellij; detach and run again: %w",
		p.Name, ErrSwitchUnsupported)
}

// ListSessions returns the names of all zellij sessions, including exited
// sessions that can still be resurrected.
func (z *Zellij) ListSessions(ctx context.Context) (names []string, err error) {
	ctx, span := z.cmd.startSpan(ctx, "list", "")
	defer func() { z.cmd.finish(ctx, span, "list", "listed", err) }()

	return z.sessions(ctx)
}

func (z *Zellij) sessions(ctx context.Context) ([]string, error) {
	cmd := runner.Command{Args: []string{"list-sessions", "--short", "--no-formatting"}}
	res, err := z.cmd.probe(ctx, "list-sessions", "", cmd)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		if isZellijNoSessions(res.Stdout + res.Stderr) {
			return []string{}, nil
		}
		return nil, &CommandError{Backend: "zellij", Step: "list-sessions", Command: cmd, Result: res}
	}
	return parseZellijSessions(res.Stdout), nil
}

// parseZellijSessions takes the first field of each line. --short prints
// bare names; older zellij releases ignore it and print:
//
//	api [Created 2h 3m ago] (current)
//	old [Created 1day ago] (EXITED - attach to resurrect)
func parseZellijSessions(out string) []string {
	names := []string{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || isZellijNoSessions(line) {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// KillSessions kills each session with kill-session, one at a time.
func (z *Zellij) KillSessions(ctx context.Context, names []string) []KillResult {
	results := make([]KillResult, 0, len(names))
	for _, name := range names {
		results = append(results, z.killSession(ctx, name))
	}
	return results
}

func (z *Zellij) killSession(ctx context.Context, name string) (r KillResult) {
	ctx, span := z.cmd.startSpan(ctx, "kill", name)
	defer func() { z.cmd.finish(ctx, span, "kill", string(r.Outcome), r.Err) }()

	r.Session = name
	if name == "" {
		r.Outcome, r.Err = KillOutcomeFailed, model.ErrNoProjectName
		return r
	}

	cmd := runner.Command{Args: []string{"kill-session", name}}
	res, err := z.cmd.probe(ctx, "kill-session", name, cmd)
	output := res.Stdout + res.Stderr
	switch {
	case err != nil:
		r.Outcome, r.Err = KillOutcomeFailed, err
	case res.Success():
		r.Outcome = KillOutcomeKilled
		z.cmd.log.Info("killed session", "session", name)
	case strings.Contains(output, "No session named") || isZellijNoSessions(output):
		r.Outcome = KillOutcomeNotFound
		z.cmd.log.Warn("session not found", "session", name)
	default:
		r.Outcome = KillOutcomeFailed
		r.Err = &CommandError{Backend: "zellij", Step: "kill-session", Session: name, Command: cmd, Result: res}
		z.cmd.log.Error("error while killing session", "session", name, "err", r.Err)
	}
	return r
}

// UniqueSession opens the lowest digit not present in the session list.
func (z *Zellij) UniqueSession(ctx context.Context) (name string, ok bool, err error) {
	ctx, span := z.cmd.startSpan(ctx, "unique", "")
	outcome := "exhausted"
	defer func() { z.cmd.finish(ctx, span, "unique", outcome, err) }()

	existing, err := z.sessions(ctx)
	if err != nil {
		return "", false, err
	}
	for i := 0; i < uniqueSlots; i++ {
		name := strconv.Itoa(i)
		if slices.Contains(existing, name) {
			continue
		}

		p := model.Project{Path: z.home, Name: name}
		if !z.inside {
			outcome = outcomeAttached
			return name, true, z.createOrAttach(ctx, p)
		}
		if err := z.createBackground(ctx, p); err != nil {
			return name, true, err
		}
		outcome = outcomeCreated
		return name, true, fmt.Errorf("zellij session %q is ready but cannot be switched to from inside zellij; detach and run again: %w",
			name, ErrSwitchUnsupported)
	}

	z.cmd.log.Warn("all unique session slots are in use", "slots", uniqueSlots)
	return "", false, nil
}

func (z *Zellij) hasSession(ctx context.Context, name string) (bool, error) {
	names, err := z.sessions(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

func (z *Zellij) createOrAttach(ctx context.Context, p model.Project) error {
	_, err := z.cmd.check(ctx, "create-or-attach", p.Name, runner.Command{
		Args:   []string{"attach", "--create", p.Name},
		Dir:    p.Path,
		Attach: true,
	})
	return err
}

func (z *Zellij) createBackground(ctx context.Context, p model.Project) error {
	_, err := z.cmd.check(ctx, "create-detached", p.Name, runner.Command{
		Args: []string{"attach", "--create-background", p.Name},
		Dir:  p.Path,
	})
	return err
}

func isZellijNoSessions(output string) bool {
	return strings.Contains(output, "No active zellij sessions found")
}
