package cli

import (
	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, descriptions, labels, people and plan text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks := store.SortTasks(st.SearchTasks(args[0], filter))
			return writeOut(cmd, app, map[string]any{
				"data": tasks,
				"meta": map[string]any{"count": len(tasks), "query": args[0]},
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (open|done)")
	return cmd
}
