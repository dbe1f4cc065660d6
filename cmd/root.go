package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/mukduk/internal/config"
	"github.com/timvw/mukduk/internal/logger"
	"github.com/timvw/mukduk/internal/mux"
	telem "github.com/timvw/mukduk/internal/otel"
	"github.com/timvw/mukduk/internal/picker"
	"github.com/timvw/mukduk/internal/runner"
)

// Version is set at build time with -ldflags "-X github.com/timvw/mukduk/cmd.Version=...".
var Version = "dev"

var (
	// Global flags.
	flagProjectsDir     string
	flagConfig          string
	flagPickProjectsDir bool
	flagMux             string
	flagVerbose         int
)

// telemetry is the part of *telem.Telemetry the command lifecycle needs.
type telemetry interface {
	Shutdown(ctx context.Context)
}

// deps is what subcommands share, built once per invocation by setup.
type deps struct {
	cfg       *config.Config
	runner    runner.Runner
	picker    picker.Picker
	telemetry telemetry
	metrics   *telem.Metrics
	env       mux.Environment
}

var app *deps

var rootCmd = &cobra.Command{
	Use:   "mukduk",
	Short: "Open project directories as terminal multiplexer sessions",
	Long: `mukduk opens a project directory as a tmux or zellij session named after it.

Projects are the subdirectories of the projects root. Pick one interactively
and mukduk attaches to its session, creating it first when needed. Inside
tmux it switches the current client instead of nesting a new one.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command tree and then flushes telemetry, whether or not
// the command failed.
func execute(ctx context.Context, args []string) error {
	defer shutdownTelemetry(ctx)

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func shutdownTelemetry(ctx context.Context) {
	if app != nil && app.telemetry != nil {
		app.telemetry.Shutdown(ctx)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectsDir, "projects-dir", "", "projects root (default: $PROJECTS_DIR, projects_dir.default, ~/projects)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default: search $XDG_CONFIG_HOME/mukduk, ~/.config/mukduk, ~/.mukdukrc)")
	rootCmd.PersistentFlags().BoolVarP(&flagPickProjectsDir, "pick-projects-dir", "P", false, "pick the projects root from projects_dir.options")
	rootCmd.PersistentFlags().StringVarP(&flagMux, "multiplexer", "m", "", "terminal multiplexer: tmux, zellij (default: $MUKDUK_MULTIPLEXER or auto-detect)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log more (-v info, -vv debug)")
}

// setup loads configuration and builds the shared dependencies.
func setup(cmd *cobra.Command, args []string) error {
	logger.Init(os.Stderr, flagVerbose)
	log := logger.Component("cmd")

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		log.Info("loaded config", "path", cfg.ConfigFile)
	}
	if flagProjectsDir != "" {
		dir, err := config.ExpandHome(flagProjectsDir)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg.ProjectsDir.Default = dir
	}
	if flagMux != "" {
		cfg.Multiplexer = flagMux
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	telem.Version = Version
	tel, err := telem.Init(cmd.Context(), telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		log.Warn("otel init failed", "err", err)
	}

	r := runner.NewExec()
	p, err := picker.New(picker.Options{
		Mode:    cfg.Picker,
		FzfArgs: cfg.FzfArgs,
		Theme:   cfg.Theme,
		Runner:  r,
	})
	if err != nil {
		return err
	}

	app = &deps{
		cfg:    cfg,
		runner: r,
		picker: p,
		env:    mux.ProcessEnvironment(),
	}
	if tel != nil {
		app.telemetry = tel
		app.metrics = tel.Metrics
	}
	return nil
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if app.cfg.Multiplexer != "" {
		return mux.FromName(app.cfg.Multiplexer, app.runner, app.env, app.metrics)
	}
	return mux.Detect(app.runner, app.env, app.metrics)
}

var errNoProjectsDir = errors.New("no projects directory selected")

// projectsRoot returns the projects root, asking the picker to choose one
// of projects_dir.options when --pick-projects-dir is set.
func projectsRoot(ctx context.Context) (string, error) {
	if !flagPickProjectsDir {
		return app.cfg.ProjectsDir.Default, nil
	}

	options := app.cfg.ProjectsDir.Options
	if len(options) == 0 {
		return "", fmt.Errorf("--pick-projects-dir: no projects_dir.options configured")
	}
	choice, err := app.picker.Pick(ctx, options)
	if err != nil {
		return "", fmt.Errorf("picking projects directory: %w", err)
	}
	if choice == "" {
		return "", errNoProjectsDir
	}
	return choice, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
