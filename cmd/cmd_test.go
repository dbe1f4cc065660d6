package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/timvw/mukduk/internal/config"
	"github.com/timvw/mukduk/internal/model"
	"github.com/timvw/mukduk/internal/mux"
)

// mockPicker implements picker.Picker for testing.
type mockPicker struct {
	choice  string
	choices []string
	offered []string
}

func (m *mockPicker) Pick(_ context.Context, items []string) (string, error) {
	m.offered = items
	return m.choice, nil
}

func (m *mockPicker) PickMulti(_ context.Context, items []string) ([]string, error) {
	m.offered = items
	return m.choices, nil
}

func withApp(t *testing.T, cfg *config.Config, p *mockPicker, pickDir bool) {
	t.Helper()
	prevApp, prevFlag := app, flagPickProjectsDir
	app = &deps{cfg: cfg, picker: p}
	flagPickProjectsDir = pickDir
	t.Cleanup(func() {
		app, flagPickProjectsDir = prevApp, prevFlag
	})
}

var sample = []model.Project{
	{Path: "/work/api", Name: "api"},
	{Path: "/work/web.app", Name: "web_app"},
}

func TestWriteProjects_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProjects(&buf, outputText, sample); err != nil {
		t.Fatalf("writeProjects() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if f := strings.Fields(lines[1]); len(f) != 2 || f[0] != "web_app" || f[1] != "/work/web.app" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestWriteProjects_JSON(t *testing.T) {
	for _, format := range []string{outputJSON, outputJSONR} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeProjects(&buf, format, sample); err != nil {
				t.Fatalf("writeProjects() error: %v", err)
			}
			var got []model.Project
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}
			if len(got) != 2 || got[1] != sample[1] {
				t.Errorf("got %+v", got)
			}

			compact := strings.Count(strings.TrimSpace(buf.String()), "\n") == 0
			if compact != (format == outputJSONR) {
				t.Errorf("format %s: compact=%v, output %q", format, compact, buf.String())
			}
		})
	}
}

func TestWriteProjects_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProjects(&buf, outputYAML, sample); err != nil {
		t.Fatalf("writeProjects() error: %v", err)
	}
	var got []model.Project
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if len(got) != 2 || got[0] != sample[0] {
		t.Errorf("got %+v", got)
	}
}

func TestWriteProjects_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProjects(&buf, outputJSONR, []model.Project{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestWriteProjects_UnknownFormat(t *testing.T) {
	if err := writeProjects(&bytes.Buffer{}, "xml", sample); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPrintKillResults(t *testing.T) {
	var buf bytes.Buffer
	printKillResults(&buf, []mux.KillResult{
		{Session: "a", Outcome: mux.KillOutcomeFailed, Err: errors.New("lost server")},
		{Session: "b", Outcome: mux.KillOutcomeKilled},
		{Session: "c", Outcome: mux.KillOutcomeNotFound},
	})

	out := buf.String()
	for _, want := range []string{"failed a: lost server", "killed b", "not found c"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProjectsRoot(t *testing.T) {
	cfg := config.Defaults()
	cfg.ProjectsDir.Default = "/work"
	cfg.ProjectsDir.Options = []string{"/work", "/oss"}

	t.Run("default", func(t *testing.T) {
		p := &mockPicker{choice: "/oss"}
		withApp(t, cfg, p, false)

		got, err := projectsRoot(context.Background())
		if err != nil || got != "/work" {
			t.Fatalf("got (%q, %v), want /work", got, err)
		}
		if p.offered != nil {
			t.Error("picker must not run without --pick-projects-dir")
		}
	})

	t.Run("picked", func(t *testing.T) {
		p := &mockPicker{choice: "/oss"}
		withApp(t, cfg, p, true)

		got, err := projectsRoot(context.Background())
		if err != nil || got != "/oss" {
			t.Fatalf("got (%q, %v), want /oss", got, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		withApp(t, cfg, &mockPicker{}, true)

		if _, err := projectsRoot(context.Background()); !errors.Is(err, errNoProjectsDir) {
			t.Fatalf("expected errNoProjectsDir, got %v", err)
		}
	})

	t.Run("no options", func(t *testing.T) {
		empty := config.Defaults()
		withApp(t, empty, &mockPicker{choice: "/x"}, true)

		if _, err := projectsRoot(context.Background()); err == nil {
			t.Fatal("expected error when no options are configured")
		}
	})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("no project selected"))
	if !strings.Contains(buf.String(), "Error: no project selected") {
		t.Errorf("got %q", buf.String())
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"project", "open"},
		{"project", "scratch"},
		{"project", "kill"},
		{"project", "home"},
		{"project", "list"},
		{"project", "sessions"},
		{"version"},
	} {
		c, _, err := rootCmd.Find(path)
		if err != nil || c.Name() != path[len(path)-1] {
			t.Errorf("command %v not registered: %v", path, err)
		}
	}
}

// countingTelemetry records Shutdown calls.
type countingTelemetry struct {
	shutdowns int
}

func (c *countingTelemetry) Shutdown(context.Context) { c.shutdowns++ }

// addTestCommand registers a subcommand whose setup installs tel and whose
// run returns runErr.
func addTestCommand(t *testing.T, tel *countingTelemetry, runErr error) string {
	t.Helper()
	prevApp := app
	c := &cobra.Command{
		Use: "telemetry-test",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app = &deps{cfg: config.Defaults(), telemetry: tel}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error { return runErr },
	}
	rootCmd.AddCommand(c)
	t.Cleanup(func() {
		rootCmd.RemoveCommand(c)
		rootCmd.SetArgs(nil)
		app = prevApp
	})
	return c.Use
}

func TestExecute_FailingCommandFlushesTelemetry(t *testing.T) {
	tel := &countingTelemetry{}
	name := addTestCommand(t, tel, errors.New("open failed"))

	err := execute(context.Background(), []string{name})
	if err == nil || err.Error() != "open failed" {
		t.Fatalf("execute() error = %v, want the command's error", err)
	}
	if tel.shutdowns != 1 {
		t.Errorf("Shutdown calls = %d, want 1 after a failed command", tel.shutdowns)
	}
}

func TestExecute_SuccessfulCommandFlushesTelemetryOnce(t *testing.T) {
	tel := &countingTelemetry{}
	name := addTestCommand(t, tel, nil)

	if err := execute(context.Background(), []string{name}); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if tel.shutdowns != 1 {
		t.Errorf("Shutdown calls = %d, want 1", tel.shutdowns)
	}
}
