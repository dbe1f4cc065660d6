package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/timvw/mukduk/internal/model"
	"github.com/timvw/mukduk/internal/project"
)

var flagOutput string

// Output formats for list.
const (
	outputText  = "text"
	outputJSON  = "json"
	outputJSONR = "json-r" // compact, one document
	outputYAML  = "yaml"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects under the projects root",
	Long: `List the projects under the projects root with the session name each
would get and its directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectsRoot(cmd.Context())
		if err != nil {
			return err
		}

		resolver := &project.Resolver{Root: root}
		projects, err := resolver.Candidates()
		if err != nil {
			return err
		}
		return writeProjects(cmd.OutOrStdout(), flagOutput, projects)
	},
}

func writeProjects(w io.Writer, format string, projects []model.Project) error {
	switch format {
	case outputText, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Path)
		}
		return tw.Flush()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	case outputJSONR:
		return json.NewEncoder(w).Encode(projects)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(projects); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (supported: text, json, json-r, yaml)", format)
	}
}

func init() {
	listCmd.Flags().StringVarP(&flagOutput, "output", "o", outputText, "output format: text, json, json-r, yaml")
	projectCmd.AddCommand(listCmd)
}
