package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the snapshot to a SQLite database",
		Long: `Export the snapshot to a SQLite database for ad-hoc querying.

The file is rebuilt from scratch on every run: tasks, plan items and
sessions land in their own tables with foreign keys back to tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return writeErr(cmd, fmt.Errorf("--out is required"))
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.ExportSQLite(cmd.Context(), out); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"exported": out}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Path of the SQLite file to write")
	return cmd
}
