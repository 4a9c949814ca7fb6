package cli

import (
	"fmt"
	"strings"

	"taskfocus-cli/internal/links"
	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		taskType string
		priority string
		who      string
		assignee string
		start    string
		deadline string
		desc     string
		labels   []string
		plan     []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return writeErr(cmd, fmt.Errorf("empty title"))
			}

			draft := model.Task{
				Title:       title,
				WhoAsked:    who,
				Assignee:    assignee,
				StartDate:   start,
				Deadline:    deadline,
				Description: desc,
				Labels:      labels,
			}
			if taskType != "" {
				tt, err := parseTypeFlag(taskType)
				if err != nil {
					return writeErr(cmd, err)
				}
				draft.Type = tt
			}
			if priority != "" {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				draft.Priority = p
			}
			for _, text := range plan {
				draft.Plan = append(draft.Plan, model.PlanItem{Text: text})
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := st.AddTask(draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Debug("task added", "id", task.ID, "title", task.Title)
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&taskType, "type", "", "Task type (Make|Ask|Arrange|Control)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (High|Medium|Low)")
	cmd.Flags().StringVar(&who, "who", "", "Who asked for this")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Who it is delegated to")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD; default today)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&desc, "description", "", "Free-form description")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "Label (repeatable)")
	cmd.Flags().StringArrayVar(&plan, "plan", nil, "Plan item text (repeatable)")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var status string
	var today bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var tasks []*model.Task
			if today {
				tasks = store.SortTasks(st.EligibleToday())
			} else {
				filter, err := parseStatusFilter(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				tasks = st.Tasks(filter)
			}
			return writeOut(cmd, app, map[string]any{
				"data": tasks,
				"meta": map[string]any{"count": len(tasks)},
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (open|done)")
	cmd.Flags().BoolVar(&today, "today", false, "Only today's eligible open tasks, in working order")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its plan, sessions and links",
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
				"data": task,
				"meta": map[string]any{"links": links.FromTask(task)},
			})
		},
	}
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var (
		title    string
		taskType string
		priority string
		who      string
		assignee string
		start    string
		deadline string
		desc     string
		status   string
		focus    bool
		labels   []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields (only the flags you set change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var patch store.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("type") {
				tt, err := parseTypeFlag(taskType)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Type = &tt
			}
			if cmd.Flags().Changed("priority") {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("who") {
				patch.WhoAsked = &who
			}
			if cmd.Flags().Changed("assignee") {
				patch.Assignee = &assignee
			}
			if cmd.Flags().Changed("start") {
				patch.StartDate = &start
			}
			if cmd.Flags().Changed("deadline") {
				patch.Deadline = &deadline
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("status") {
				s, err := parseStatusFlag(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Status = &s
			}
			if cmd.Flags().Changed("focus") {
				patch.Focus = &focus
			}
			if cmd.Flags().Changed("label") {
				patch.Labels = labels
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := st.UpdateTask(id, patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&taskType, "type", "", "Task type (Make|Ask|Arrange|Control)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (High|Medium|Low)")
	cmd.Flags().StringVar(&who, "who", "", "Who asked for this")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Who it is delegated to")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD; pass \"\" to clear)")
	cmd.Flags().StringVar(&desc, "description", "", "Free-form description")
	cmd.Flags().StringVar(&status, "status", "", "Status (open|done)")
	cmd.Flags().BoolVar(&focus, "focus", false, "Focus flag")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "Replace labels (repeatable; pass \"\" once to clear)")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, app, args[0], model.StatusDone)
		},
	}
	return cmd
}

func newReopenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a done task (clears its completion stamp)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, app, args[0], model.StatusOpen)
		},
	}
	return cmd
}

func setStatus(cmd *cobra.Command, app *App, arg string, status model.Status) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return writeErr(cmd, err)
	}
	st, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	task, err := st.UpdateTask(id, store.TaskPatch{Status: &status})
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": task})
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task permanently",
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
			if err := st.DeleteTask(id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}

func newPostponeCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "postpone <id>",
		Short: "Push the start date forward from max(start, today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if days <= 0 {
				return writeErr(cmd, fmt.Errorf("--days must be positive"))
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := st.PostponeTask(id, days)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().IntVar(&days, "days", 1, "How many days to push")
	return cmd
}

func parseTypeFlag(v string) (model.TaskType, error) {
	for _, tt := range model.TaskTypes {
		if strings.EqualFold(string(tt), v) {
			return tt, nil
		}
	}
	return "", fmt.Errorf("invalid type %q (want Make|Ask|Arrange|Control)", v)
}

func parsePriorityFlag(v string) (model.Priority, error) {
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		if strings.EqualFold(string(p), v) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want High|Medium|Low)", v)
}

func parseStatusFlag(v string) (model.Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "open":
		return model.StatusOpen, nil
	case "done":
		return model.StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q (want open|done)", v)
}

// parseStatusFilter is parseStatusFlag plus "anything goes": an empty
// value means no filter.
func parseStatusFilter(v string) (model.Status, error) {
	if strings.TrimSpace(v) == "" {
		return "", nil
	}
	return parseStatusFlag(v)
}
