package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate views over the whole collection",
	}
	cmd.AddCommand(newStatsTimeCmd(app))
	cmd.AddCommand(newStatsBurndownCmd(app))
	cmd.AddCommand(newStatsWorkloadCmd(app))
	return cmd
}

func newStatsTimeCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Minutes per day per task over the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			axis, series := st.TimeByTask(days)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"days": axis, "series": series},
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 14, "How many days back, today inclusive")
	return cmd
}

func newStatsBurndownCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burndown",
		Short: "Open-task count at the end of each of the last thirty days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Burndown()})
		},
	}
	return cmd
}

func newStatsWorkloadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Open tasks per assignee, split by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Workload()})
		},
	}
	return cmd
}
