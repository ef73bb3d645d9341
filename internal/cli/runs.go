package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quantrisk/internal/store"
)

func newRunsCmd(app *App) *cobra.Command {
	var limit int
	var instrumentID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted pricing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runStore, err := app.openStore()
			if err != nil {
				return err
			}
			runs, err := runStore.ListRuns(cmd.Context(), store.RunFilter{
				InstrumentID: instrumentID,
				Limit:        limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%s  %s  %-24s %-16s paths=%-7d price=%s delta=%s\n",
					run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.InstrumentID, run.Model, run.Paths,
					run.Price.StringFixed(6), run.Delta.StringFixed(6))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	cmd.Flags().StringVar(&instrumentID, "instrument", "", "filter by instrument id")
	return cmd
}
