package cli

import (
	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage a task's checklist",
	}
	cmd.AddCommand(newPlanListCmd(app))
	cmd.AddCommand(newPlanAddCmd(app))
	cmd.AddCommand(newPlanRemoveCmd(app))
	cmd.AddCommand(newPlanCheckCmd(app, true))
	cmd.AddCommand(newPlanCheckCmd(app, false))
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <id>",
		Short: "List a task's plan items",
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
				"data": task.Plan,
				"meta": map[string]any{"count": len(task.Plan)},
			})
		},
	}
	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <text>",
		Short: "Append a plan item",
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
			incoming := append(append([]model.PlanItem{}, task.Plan...), model.PlanItem{Text: args[1]})
			updated, err := st.UpdateTask(id, store.TaskPatch{Plan: incoming})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": updated.Plan})
		},
	}
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id> <item-id>",
		Short: "Remove a plan item",
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
			if task.FindPlanItem(args[1]) == nil {
				return writeErr(cmd, errNotFound("plan item", args[1]))
			}
			incoming := make([]model.PlanItem, 0, len(task.Plan))
			for _, it := range task.Plan {
				if it.ID != args[1] {
					incoming = append(incoming, it)
				}
			}
			updated, err := st.UpdateTask(id, store.TaskPatch{Plan: incoming})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": updated.Plan})
		},
	}
	return cmd
}

func newPlanCheckCmd(app *App, completed bool) *cobra.Command {
	use, short := "check <id> <item-id>", "Mark a plan item completed (by hand, not by a session)"
	if !completed {
		use, short = "uncheck <id> <item-id>", "Clear a plan item's completion"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
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
			item, err := st.SetPlanCompletion(id, args[1], completed)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": item})
		},
	}
	return cmd
}
