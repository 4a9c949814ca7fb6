package cli

import (
	"github.com/spf13/cobra"
)

func newPeopleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List every name seen in who-asked and assignee fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.People()})
		},
	}
	return cmd
}

func newLabelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List every label ever used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Labels()})
		},
	}
	return cmd
}
