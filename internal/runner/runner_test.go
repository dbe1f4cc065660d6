package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/timvw/mukduk/internal/logger"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExec_CapturesStdout(t *testing.T) {
	requireSh(t)

	res, err := NewExec().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Success() {
		t.Fatalf("expected success, got exit %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("Stdout: got %q, want %q", res.Stdout, "hello\n")
	}
}

func TestExec_LogsStdoutAtInfo(t *testing.T) {
	requireSh(t)

	var buf bytes.Buffer
	logger.Init(&buf, 1)
	t.Cleanup(logger.Reset)

	if _, err := NewExec().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo from-child"}}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "command output") || !strings.Contains(out, "from-child") {
		t.Errorf("stdout not logged at info level:\n%s", out)
	}
	if strings.Contains(out, "running") {
		t.Errorf("debug record emitted at info level:\n%s", out)
	}
}

func TestExec_NonZeroExitIsNotAnError(t *testing.T) {
	requireSh(t)

	res, err := NewExec().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode: got %d, want 3", res.ExitCode)
	}
	if res.Success() {
		t.Error("Success() should be false for exit 3")
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Errorf("Stderr: got %q, want %q", res.Stderr, "oops\n")
	}
}

func TestExec_MissingBinary(t *testing.T) {
	_, err := NewExec().Run(context.Background(), Command{Name: "mukduk-definitely-not-installed"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound in chain, got %v", err)
	}
}

func TestExec_FeedsStdin(t *testing.T) {
	requireSh(t)

	res, err := NewExec().Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "cat"},
		Stdin: "alpha\nbeta",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Stdout != "alpha\nbeta" {
		t.Errorf("Stdout: got %q", res.Stdout)
	}
}

func TestExec_UsesDir(t *testing.T) {
	requireSh(t)

	dir := t.TempDir()
	res, err := NewExec().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != want {
		t.Errorf("pwd: got %q, want %q", strings.TrimSpace(res.Stdout), want)
	}
}

func TestExec_AttachRequiresTerminal(t *testing.T) {
	e := &Exec{IsTerminal: func() bool { return false }}

	_, err := e.Run(context.Background(), Command{Name: "tmux", Args: []string{"attach"}, Attach: true})
	if !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Name: "tmux", Args: []string{"has-session", "-t", "=api"}}
	if got := c.String(); got != "tmux has-session -t =api" {
		t.Errorf("String() = %q", got)
	}
	if got := (Command{Name: "fzf"}).String(); got != "fzf" {
		t.Errorf("String() = %q", got)
	}
}
