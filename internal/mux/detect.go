package mux

import (
	"fmt"
	"os"
	"os/exec"

	mkotel "github.com/timvw/mukduk/internal/otel"
	"github.com/timvw/mukduk/internal/runner"
)

// Names lists the supported backends.
var Names = []string{"tmux", "zellij"}

// Environment is the process state used to pick and configure a backend.
type Environment struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Home     string
}

// ProcessEnvironment returns the environment of the running process.
func ProcessEnvironment() Environment {
	home, _ := os.UserHomeDir()
	return Environment{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Home:     home,
	}
}

// New creates a backend by name with explicit options.
func New(name string, r runner.Runner, opts Options) (Multiplexer, error) {
	switch name {
	case "tmux":
		return NewTmux(r, opts), nil
	case "zellij":
		return NewZellij(r, opts), nil
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux, zellij)", name)
	}
}

// FromName creates a backend by name, probing env for its session marker.
func FromName(name string, r runner.Runner, env Environment, metrics *mkotel.Metrics) (Multiplexer, error) {
	marker, err := envMarker(name)
	if err != nil {
		return nil, err
	}
	return New(name, r, Options{
		Inside:  env.Getenv(marker) != "",
		Home:    env.Home,
		Metrics: metrics,
	})
}

// Detect picks a backend: the one whose session we are inside, otherwise
// the first installed one in Names order.
func Detect(r runner.Runner, env Environment, metrics *mkotel.Metrics) (Multiplexer, error) {
	for _, name := range Names {
		marker, _ := envMarker(name)
		if env.Getenv(marker) != "" {
			return FromName(name, r, env, metrics)
		}
	}
	for _, name := range Names {
		if path, err := env.LookPath(name); err == nil && path != "" {
			return FromName(name, r, env, metrics)
		}
	}
	return nil, fmt.Errorf("no supported terminal multiplexer detected (install tmux or zellij, or pass --multiplexer)")
}

func envMarker(name string) (string, error) {
	switch name {
	case "tmux":
		return TmuxEnvMarker, nil
	case "zellij":
		return ZellijEnvMarker, nil
	default:
		return "", fmt.Errorf("unknown multiplexer: %q (supported: tmux, zellij)", name)
	}
}
