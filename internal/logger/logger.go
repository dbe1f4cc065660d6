// Package logger configures the process-wide slog logger.
//
// Diagnostics go to stderr so stdout stays clean for command output
// (project lists, session names). Verbosity follows the -v count:
// 0 warn, 1 info, 2 or more debug.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu       sync.Mutex
	levelVar = new(slog.LevelVar)
	base     = newLogger(os.Stderr)
)

func init() {
	levelVar.Set(slog.LevelWarn)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// LevelForVerbosity maps a -v count to a slog level.
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Init points the logger at w with the level derived from verbosity.
func Init(w io.Writer, verbosity int) {
	mu.Lock()
	defer mu.Unlock()

	levelVar.Set(LevelForVerbosity(verbosity))
	base = newLogger(w)
	slog.SetDefault(base)
}

// Component returns a logger with the component attribute pre-attached.
//
//	log := logger.Component("tmux")
//	log.Info("switching session", "session", name)
func Component(name string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base.With(slog.String("component", name))
}

// Reset restores the default stderr logger at warn level. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	levelVar.Set(slog.LevelWarn)
	base = newLogger(os.Stderr)
}
