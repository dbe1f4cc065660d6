// Package mux provides an abstraction over terminal multiplexers (tmux, zellij).
//
// Each backend reconciles the current environment (inside or outside a
// session of that backend) and the backend's session state into the minimal
// sequence of external commands that leaves the user attached to the target
// session. The backend is the only source of truth: session existence is
// queried fresh every time and never cached.
package mux

import (
	"context"

	"github.com/timvw/mukduk/internal/model"
	mkotel "github.com/timvw/mukduk/internal/otel"
)

// Multiplexer abstracts terminal multiplexer session operations.
// Implementations exist for tmux and zellij.
type Multiplexer interface {
	// Name returns the multiplexer name ("tmux", "zellij").
	Name() string

	// Open ensures a session named p.Name rooted at p.Path exists and is
	// the user's active session.
	Open(ctx context.Context, p model.Project) error

	// ListSessions returns the names of all sessions. No sessions is an
	// empty slice, not an error.
	ListSessions(ctx context.Context) ([]string, error)

	// KillSessions terminates each named session in order and reports one
	// result per name. A failure never stops the remaining kills.
	KillSessions(ctx context.Context, names []string) []KillResult

	// UniqueSession opens a session named after the lowest unused digit
	// 0-9, rooted at the home directory. ok is false, with a nil error,
	// when all ten digits are taken.
	UniqueSession(ctx context.Context) (name string, ok bool, err error)
}

// KillOutcome is the result of killing one session.
type KillOutcome string

const (
	KillOutcomeKilled   KillOutcome = "killed"
	KillOutcomeNotFound KillOutcome = "not_found"
	KillOutcomeFailed   KillOutcome = "failed"
)

// KillResult reports what happened to one session in a kill batch.
type KillResult struct {
	Session string
	Outcome KillOutcome
	// Err is set when Outcome is KillOutcomeFailed.
	Err error
}

// Options configures a backend.
type Options struct {
	// Inside reports whether this process runs inside a session of the
	// backend. Callers normally probe the backend's environment marker.
	Inside bool
	// Home is the working directory of unique sessions.
	Home string
	// Metrics receives operation and command counters; nil disables them.
	Metrics *mkotel.Metrics
}

// uniqueSlots is the number of digit-named unique sessions.
const uniqueSlots = 10

// Open outcomes, used for logs and metrics.
const (
	outcomeAttached = "attached"
	outcomeSwitched = "switched"
	outcomeCreated  = "created"
	outcomeFailed   = "failed"
)
