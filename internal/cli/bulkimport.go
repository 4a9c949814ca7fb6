package cli

import (
	"fmt"
	"io"
	"os"

	"taskfocus-cli/internal/bulk"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Bulk-add tasks from shorthand lines",
		Long: `Bulk-add tasks from shorthand lines, one task per line.

Each line is "<type>: <title>" followed by optional " — key value"
segments (asked by, assignee, start, deadline, priority, description).
Lines that do not parse are skipped, not fatal. Reads the named file,
or stdin when no file is given.`,
		Example: `  taskfocus import backlog.txt
  echo "ask: Budget numbers — asked by Dana — deadline 2026-09-01" | taskfocus import`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			added, skipped, err := bulk.Import(st, string(text))
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Debug("bulk import finished", "added", added, "skipped", skipped)

			if asJSON {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"added": added, "skipped": skipped},
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Imported %d task(s).", added)))
			if skipped > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("Skipped %d unparseable line(s).", skipped)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit counts as JSON")
	return cmd
}
