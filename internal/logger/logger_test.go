package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{5, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := LevelForVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelForVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestComponent_WritesComponentAttribute(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Init(&buf, 1)

	Component("tmux").Info("switching session", "session", "api")

	out := buf.String()
	for _, want := range []string{"component=tmux", "session=api", "switching session"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Init(&buf, 0)

	log := Component("resolver")
	log.Info("hidden")
	log.Debug("hidden too")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info/debug should be filtered at verbosity 0: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn should be written at verbosity 0: %q", out)
	}
}
