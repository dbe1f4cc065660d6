package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/mukduk/internal/model"
	"github.com/timvw/mukduk/internal/project"
)

var (
	flagOpenName string
	flagOpenDir  string

	flagScratchName string
	flagScratchDir  string
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Open, list and kill project sessions",
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a project session",
	Long: `Open a project as a multiplexer session.

Without --dir the subdirectories of the projects root are offered in a picker.
The session is named after the directory, or --name, with every '.' replaced
by '_'. An existing session is reused.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		root := ""
		if flagOpenDir == "" {
			var err error
			if root, err = projectsRoot(ctx); err != nil {
				return err
			}
		}

		resolver := &project.Resolver{Root: root, Picker: app.picker}
		p, err := resolver.Resolve(ctx, flagOpenDir, flagOpenName)
		if err != nil {
			return err
		}

		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		return m.Open(ctx, p)
	},
}

var scratchCmd = &cobra.Command{
	Use:   "scratch",
	Short: "Open a scratch session in the home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := flagScratchDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("scratch: %w", err)
			}
			dir = home
		}

		p, err := model.NewProject(dir, flagScratchName)
		if err != nil {
			return err
		}

		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		return m.Open(cmd.Context(), p)
	},
}

func init() {
	openCmd.Flags().StringVarP(&flagOpenName, "name", "n", "", "session name (default: directory name)")
	openCmd.Flags().StringVarP(&flagOpenDir, "dir", "d", "", "project directory (default: pick from the projects root)")

	scratchCmd.Flags().StringVarP(&flagScratchName, "name", "n", "scratch", "session name")
	scratchCmd.Flags().StringVarP(&flagScratchDir, "dir", "d", "", "working directory (default: home directory)")

	projectCmd.AddCommand(openCmd, scratchCmd)
	rootCmd.AddCommand(projectCmd)
}
