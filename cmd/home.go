package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open a new numbered session in the home directory",
	Long: `Open a session named after the lowest unused digit 0-9, rooted at the
home directory. When all ten are in use nothing is created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		_, ok, err := m.UniqueSession(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("all unique sessions (0-9) are in use"))
		}
		return nil
	},
}

func init() {
	projectCmd.AddCommand(homeCmd)
}
