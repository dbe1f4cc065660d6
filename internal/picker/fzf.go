package picker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/timvw/mukduk/internal/logger"
	"github.com/timvw/mukduk/internal/runner"
)

// Fzf picks through the external fzf program. Items are written to its
// stdin one per line; the selection is read from its stdout.
type Fzf struct {
	Runner runner.Runner
	// Args are extra fzf flags, e.g. --height=40%.
	Args []string
}

// Pick returns the selected item. A non-zero fzf exit (no match, Esc,
// Ctrl-C) is a cancellation and yields "".
func (f *Fzf) Pick(ctx context.Context, items []string) (string, error) {
	lines, err := f.run(ctx, items, false)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// PickMulti runs fzf with --multi and returns every selected item.
func (f *Fzf) PickMulti(ctx context.Context, items []string) ([]string, error) {
	return f.run(ctx, items, true)
}

func (f *Fzf) run(ctx context.Context, items []string, multi bool) ([]string, error) {
	args := slices.Clone(f.Args)
	if multi {
		args = append(args, "--multi")
	}
	cmd := runner.Command{
		Name:           "fzf",
		Args:           args,
		Stdin:          strings.Join(items, "\n"),
		TerminalStderr: true,
	}

	res, err := f.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("running fzf: %w", err)
	}
	if !res.Success() {
		logger.Component("picker").Debug("fzf exited without a selection", "exit", res.ExitCode)
		return nil, nil
	}

	var picked []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			picked = append(picked, line)
		}
	}
	return picked, nil
}
