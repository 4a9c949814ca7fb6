package cli

import (
	"fmt"

	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newFocusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Pick and inspect today's focus tasks",
	}
	cmd.AddCommand(newFocusSuggestCmd(app))
	cmd.AddCommand(newFocusSetCmd(app))
	cmd.AddCommand(newFocusSkipCmd(app))
	cmd.AddCommand(newFocusListCmd(app))
	cmd.AddCommand(newFocusClearCmd(app))
	return cmd
}

func newFocusSuggestCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show today's focus candidates in working order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			suggestions := st.FocusSuggestions()
			preselect := cfg.PreselectCount()
			if preselect > len(suggestions) {
				preselect = len(suggestions)
			}

			if asJSON {
				return writeOut(cmd, app, map[string]any{
					"data": suggestions,
					"meta": map[string]any{
						"preselect":    preselect,
						"promptNeeded": st.NeedsFocusPrompt(),
					},
				})
			}

			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "Nothing is eligible today.")
				return nil
			}
			fmt.Fprintln(out, accentStyle.Render("Focus candidates for today"))
			for i, t := range suggestions {
				marker := "  "
				title := t.Title
				if i < preselect {
					marker = "* "
					title = boldStyle.Render(title)
				}
				line := fmt.Sprintf("%s#%-4d %s", marker, t.ID, title)
				if t.Deadline != "" {
					line += dimStyle.Render("  due " + t.Deadline)
				}
				fmt.Fprintln(out, line)
			}
			if !st.NeedsFocusPrompt() {
				fmt.Fprintln(out, dimStyle.Render("Focus was already set today."))
			}
			fmt.Fprintln(out, dimStyle.Render(`Choose with "taskfocus focus set <ids...>" or pass on with "taskfocus focus skip".`))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit candidates as JSON")
	return cmd
}

func newFocusSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id>...",
		Short: "Flag the given tasks as today's focus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := parseTaskID(a)
				if err != nil {
					return writeErr(cmd, err)
				}
				ids = append(ids, id)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.SetFocusForToday(ids); err != nil {
				return writeErr(cmd, err)
			}
			focused := st.FocusedToday()
			return writeOut(cmd, app, map[string]any{
				"data": focused,
				"meta": map[string]any{"count": len(focused)},
			})
		},
	}
	return cmd
}

func newFocusSkipCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skip",
		Short: "Choose no focus today and silence the prompt until tomorrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.SetFocusForToday(nil); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"skipped": true}})
		},
	}
	return cmd
}

func newFocusListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's focused tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			focused := st.FocusedToday()
			return writeOut(cmd, app, map[string]any{
				"data": focused,
				"meta": map[string]any{"count": len(focused), "promptNeeded": st.NeedsFocusPrompt()},
			})
		},
	}
	return cmd
}

func newFocusClearCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Unflag every task (the focus date is left alone)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.ClearFocus(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"cleared": true}})
		},
	}
	return cmd
}
