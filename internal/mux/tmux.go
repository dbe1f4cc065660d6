package mux

import (
	"context"
	"strconv"
	"strings"

	"github.com/timvw/mukduk/internal/model"
	"github.com/timvw/mukduk/internal/runner"
)

// TmuxEnvMarker is set by tmux in every process running inside a session.
const TmuxEnvMarker = "TMUX"

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	cmd    commander
	inside bool
	home   string
}

// NewTmux creates a tmux backend that runs tmux through r.
func NewTmux(r runner.Runner, opts Options) *Tmux {
	return &Tmux{
		cmd:    newCommander("tmux", r, opts),
		inside: opts.Inside,
		home:   opts.Home,
	}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// Open attaches the user to the project's session.
//
// Outside tmux a single "new-session -A" creates or re-enters the session.
// Inside tmux that command would nest a client, so the session is probed
// with has-session and then switched to, creating it detached first when
// it is missing. A failed create never switches. Nothing is retried.
func (t *Tmux) Open(ctx context.Context, p model.Project) (err error) {
	ctx, span := t.cmd.startSpan(ctx, "open", p.Name)
	outcome := ""
	defer func() { t.cmd.finish(ctx, span, "open", outcome, err) }()

	outcome, err = t.open(ctx, p)
	return err
}

func (t *Tmux) open(ctx context.Context, p model.Project) (string, error) {
	log := t.cmd.log.With("session", p.Name, "path", p.Path)

	if !t.inside {
		log.Info("not inside tmux, creating or attaching")
		return outcomeAttached, t.createOrAttach(ctx, p)
	}

	exists, err := t.hasSession(ctx, p.Name)
	if err != nil {
		return "", err
	}
	if exists {
		log.Info("session already exists, switching")
		return outcomeSwitched, t.switchClient(ctx, p.Name)
	}

	log.Info("session does not exist, creating and switching")
	return outcomeCreated, t.createAndSwitch(ctx, p)
}

// ListSessions returns the names of all tmux sessions.
func (t *Tmux) ListSessions(ctx context.Context) (names []string, err error) {
	ctx, span := t.cmd.startSpan(ctx, "list", "")
	defer func() { t.cmd.finish(ctx, span, "list", "listed", err) }()

	cmd := runner.Command{Args: []string{"list-sessions"}}
	res, err := t.cmd.probe(ctx, "list-sessions", "", cmd)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		if isTmuxNoServer(res.Stderr) {
			return []string{}, nil
		}
		return nil, &CommandError{Backend: "tmux", Step: "list-sessions", Command: cmd, Result: res}
	}
	return parseTmuxSessions(res.Stdout)
}

// parseTmuxSessions extracts names from default list-sessions output:
//
//	api: 2 windows (created Tue Oct 14 09:12:44 2026) (attached)
//
// tmux never allows ':' in a session name, so the name ends at the first ':'.
func parseTmuxSessions(out string) ([]string, error) {
	names := []string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok || name == "" {
			return nil, &ParseError{Backend: "tmux", Line: line}
		}
		names = append(names, name)
	}
	return names, nil
}

// KillSessions kills each session with kill-session, one at a time.
func (t *Tmux) KillSessions(ctx context.Context, names []string) []KillResult {
	results := make([]KillResult, 0, len(names))
	for _, name := range names {
		results = append(results, t.killSession(ctx, name))
	}
	return results
}

func (t *Tmux) killSession(ctx context.Context, name string) (r KillResult) {
	ctx, span := t.cmd.startSpan(ctx, "kill", name)
	defer func() { t.cmd.finish(ctx, span, "kill", string(r.Outcome), r.Err) }()

	r.Session = name
	if name == "" {
		r.Outcome, r.Err = KillOutcomeFailed, model.ErrNoProjectName
		return r
	}

	cmd := runner.Command{Args: []string{"kill-session", "-t", exactTarget(name)}}
	res, err := t.cmd.probe(ctx, "kill-session", name, cmd)
	switch {
	case err != nil:
		r.Outcome, r.Err = KillOutcomeFailed, err
	case res.Success():
		r.Outcome = KillOutcomeKilled
		t.cmd.log.Info("killed session", "session", name)
	case isTmuxNoServer(res.Stderr) || strings.Contains(res.Stderr, "can't find session"):
		r.Outcome = KillOutcomeNotFound
		t.cmd.log.Warn("session not found", "session", name)
	default:
		r.Outcome = KillOutcomeFailed
		r.Err = &CommandError{Backend: "tmux", Step: "kill-session", Session: name, Command: cmd, Result: res}
		t.cmd.log.Error("error while killing session", "session", name, "err", r.Err)
	}
	return r
}

// UniqueSession opens the lowest free digit session in the home directory.
func (t *Tmux) UniqueSession(ctx context.Context) (name string, ok bool, err error) {
	ctx, span := t.cmd.startSpan(ctx, "unique", "")
	outcome := "exhausted"
	defer func() { t.cmd.finish(ctx, span, "unique", outcome, err) }()

	for i := 0; i < uniqueSlots; i++ {
		name := strconv.Itoa(i)
		exists, err := t.hasSession(ctx, name)
		if err != nil {
			return "", false, err
		}
		if exists {
			continue
		}

		p := model.Project{Path: t.home, Name: name}
		if !t.inside {
			outcome = outcomeAttached
			return name, true, t.createOrAttach(ctx, p)
		}
		outcome = outcomeCreated
		return name, true, t.createAndSwitch(ctx, p)
	}

	t.cmd.log.Warn("all unique session slots are in use", "slots", uniqueSlots)
	return "", false, nil
}

// hasSession asks tmux whether a session with exactly this name exists.
func (t *Tmux) hasSession(ctx context.Context, name string) (bool, error) {
	res, err := t.cmd.probe(ctx, "has-session", name, runner.Command{
		Args: []string{"has-session", "-t", exactTarget(name)},
	})
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

func (t *Tmux) createOrAttach(ctx context.Context, p model.Project) error {
	_, err := t.cmd.check(ctx, "create-or-attach", p.Name, runner.Command{
		Args:   withStartDir([]string{"new-session", "-A", "-s", p.Name}, p.Path),
		Attach: true,
	})
	return err
}

func (t *Tmux) createAndSwitch(ctx context.Context, p model.Project) error {
	_, err := t.cmd.check(ctx, "create-detached", p.Name, runner.Command{
		Args: withStartDir([]string{"new-session", "-d", "-s", p.Name}, p.Path),
	})
	if err != nil {
		return err
	}
	return t.switchClient(ctx, p.Name)
}

func (t *Tmux) switchClient(ctx context.Context, name string) error {
	_, err := t.cmd.check(ctx, "switch-client", name, runner.Command{
		Args: []string{"switch-client", "-t", exactTarget(name)},
	})
	return err
}

// exactTarget prefixes '=' so tmux matches the session name exactly rather
// than by prefix or pattern.
func exactTarget(name string) string {
	return "=" + name
}

func withStartDir(args []string, dir string) []string {
	if dir == "" {
		return args
	}
	return append(args, "-c", dir)
}

// isTmuxNoServer reports stderr that means "there are no sessions".
func isTmuxNoServer(stderr string) bool {
	return strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "no sessions") ||
		strings.Contains(stderr, "error connecting to")
}
