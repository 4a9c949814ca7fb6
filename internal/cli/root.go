package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"taskfocus-cli/internal/format"
	"taskfocus-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	File       string
	PrettyJSON bool
	Verbose    bool

	logger *log.Logger
}

// Accent palette for human-readable output. JSON output stays unstyled.
var (
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskfocus",
		Short:        "Personal task tracker: plans, work sessions, daily focus",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Add a task and log work against it
  taskfocus add "Fix the gate" --type Make --deadline 2026-09-08
  taskfocus log 1 --time 1h30m --note "new hinge fitted"

  # Pick today's focus from the eligible tasks
  taskfocus focus suggest
  taskfocus focus set 1 3

  # Direct task lookup (shortcut for: taskfocus show <id>)
  taskfocus 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		app.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "taskfocus",
		})
		if app.Verbose {
			app.logger.SetLevel(log.DebugLevel)
		}
	}

	cmd.PersistentFlags().StringVar(&app.File, "file", envOr("TASKFOCUS_DATA_FILE", ""), "Path to the task snapshot (default: configured dataFile or ~/.taskfocus/tasks.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Debug logging on stderr")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newReopenCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newPostponeCmd(app))
	cmd.AddCommand(newLogCmd(app))
	cmd.AddCommand(newSessionsCmd(app))
	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newFocusCmd(app))
	cmd.AddCommand(newPeopleCmd(app))
	cmd.AddCommand(newLabelsCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// openStore resolves the snapshot path (flag > env > config > default)
// and loads it, creating the file on first use.
func openStore(app *App) (*store.Store, error) {
	path, err := store.ResolveDataFile(app.File)
	if err != nil {
		return nil, err
	}
	if app.logger != nil {
		app.logger.Debug("opening snapshot", "path", path)
	}
	return store.Open(path)
}

func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func errNotFound(kind, id string) error {
	return &store.NotFoundError{Kind: kind, ID: id}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
