package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/timvw/mukduk/internal/mux"
)

var killCmd = &cobra.Command{
	Use:   "kill [SESSION...]",
	Short: "Kill sessions",
	Long: `Kill multiplexer sessions.

Without arguments all sessions are offered in a multi-select picker.
Every session is attempted; failures are reported per session and do not
change the exit status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			sessions, err := m.ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("no sessions"))
				return nil
			}
			names, err = app.picker.PickMulti(ctx, sessions)
			if err != nil {
				return fmt.Errorf("picking sessions: %w", err)
			}
		}

		printKillResults(cmd.OutOrStdout(), m.KillSessions(ctx, names))
		return nil
	},
}

func printKillResults(w io.Writer, results []mux.KillResult) {
	for _, r := range results {
		switch r.Outcome {
		case mux.KillOutcomeKilled:
			fmt.Fprintln(w, successStyle.Render("killed "+r.Session))
		case mux.KillOutcomeNotFound:
			fmt.Fprintln(w, warnStyle.Render("not found "+r.Session))
		default:
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("failed %s: %v", r.Session, r.Err)))
		}
	}
}

func init() {
	projectCmd.AddCommand(killCmd)
}
