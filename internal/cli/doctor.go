package cli

import (
	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var (
		fix  bool
		fail bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the snapshot for structural and consistency problems",
		Long: `Check the snapshot for structural and consistency problems.

The file is inspected raw, before the healing a normal load applies, so
the report shows what is actually on disk. With --fix the full
plan/session reconciliation runs and the healed snapshot is written
back, then the file is checked again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ResolveDataFile(app.File)
			if err != nil {
				return writeErr(cmd, err)
			}

			report := store.DoctorSnapshot(path)
			fixed := false
			if fix && len(report.Issues) > 0 {
				st, err := store.Open(path)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := st.Repair(); err != nil {
					return writeErr(cmd, err)
				}
				report = store.DoctorSnapshot(path)
				fixed = true
			}

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
					"fixed":     fixed,
				},
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Reconcile and rewrite the snapshot before reporting")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
