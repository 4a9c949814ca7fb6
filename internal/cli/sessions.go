package cli

import (
	"strings"

	"taskfocus-cli/internal/timeutil"

	"github.com/spf13/cobra"
)

// cleanIDs trims plan item ids and drops empties, so --plan "" reads as
// "none" rather than a reference to a blank id.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := strings.TrimSpace(id); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newLogCmd(app *App) *cobra.Command {
	var (
		duration string
		note     string
		at       string
		plan     []string
	)

	cmd := &cobra.Command{
		Use:   "log <id>",
		Short: "Log a work session against a task",
		Long: `Log a work session against a task.

Durations are free-form: "1:30", "1h30m", "2h", "45m" or bare minutes.
Plan item ids named with --plan are marked completed by this session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			minutes, err := timeutil.ParseMinutes(duration)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ses, err := st.AppendSession(id, minutes, note, at, cleanIDs(plan))
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Debug("session logged", "task", id, "session", ses.ID, "minutes", minutes)
			return writeOut(cmd, app, map[string]any{"data": ses})
		},
	}

	cmd.Flags().StringVar(&duration, "time", "", "Time spent (e.g. 1:30, 45m, 1.5h)")
	cmd.Flags().StringVar(&note, "note", "", "What happened")
	cmd.Flags().StringVar(&at, "at", "", "Timestamp (YYYY-MM-DD HH:MM; default now)")
	cmd.Flags().StringArrayVar(&plan, "plan", nil, "Plan item id completed in this session (repeatable)")
	return cmd
}

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and edit logged sessions",
	}
	cmd.AddCommand(newSessionsListCmd(app))
	cmd.AddCommand(newSessionsEditCmd(app))
	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <id>",
		Short: "List a task's sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, ok := st.Task(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": task.Sessions,
				"meta": map[string]any{"count": len(task.Sessions), "total_minutes": task.TimeSpentMinutes},
			})
		},
	}
	return cmd
}

func newSessionsEditCmd(app *App) *cobra.Command {
	var (
		duration string
		note     string
		at       string
		plan     []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id> <session-id>",
		Short: "Edit a session (only the flags you set change)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, ok := st.Task(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			cur := task.FindSession(args[1])
			if cur == nil {
				return writeErr(cmd, errNotFound("session", args[1]))
			}

			ts := cur.Timestamp
			if cmd.Flags().Changed("at") {
				ts = at
			}
			minutes := cur.Minutes
			if cmd.Flags().Changed("time") {
				minutes, err = timeutil.ParseMinutes(duration)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			text := cur.Note
			if cmd.Flags().Changed("note") {
				text = note
			}
			items := cur.PlanItems
			if cmd.Flags().Changed("plan") {
				items = cleanIDs(plan)
			}

			ses, err := st.UpdateSession(id, args[1], ts, minutes, text, items)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ses})
		},
	}

	cmd.Flags().StringVar(&duration, "time", "", "New time spent (e.g. 1:30, 45m)")
	cmd.Flags().StringVar(&note, "note", "", "New note")
	cmd.Flags().StringVar(&at, "at", "", "New timestamp (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringArrayVar(&plan, "plan", nil, "Replace the completed plan item ids (repeatable; pass \"\" once to clear)")
	return cmd
}
