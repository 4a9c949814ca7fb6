package cli

import (
	"fmt"
	"strings"
	"time"

	"taskfocus-cli/internal/report"
	"taskfocus-cli/internal/timeutil"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		from   string
		to     string
		label  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize logged work over a date range",
		Long: `Summarize logged work over a date range.

Both bounds default to today, so a bare "taskfocus report" is a daily
review. Sessions are grouped per task, ordered chronologically, with
per-task and overall totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag(from)
			if err != nil {
				return writeErr(cmd, err)
			}
			end, err := parseDateFlag(to)
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rep, err := report.Generate(st.Tasks(""), start, end, label)
			if err != nil {
				return writeErr(cmd, err)
			}
			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": rep})
			}

			text := report.Format(rep)
			if head, rest, ok := strings.Cut(text, "\n"); ok {
				fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render(head))
				fmt.Fprintln(cmd.OutOrStdout(), rest)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render(text))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD; default today)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD; default today)")
	cmd.Flags().StringVar(&label, "label", "", "Only tasks carrying this label")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

// parseDateFlag reads a YYYY-MM-DD flag value; empty means today.
func parseDateFlag(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return timeutil.TodayDate(), nil
	}
	d, ok := timeutil.ParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v)
	}
	return d, nil
}
