package cli

import (
	"fmt"
	"strings"

	"taskfocus-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persistent settings",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored config and the resolved snapshot path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ResolveDataFile(app.File)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{
					"dataFile":   path,
					"focusCount": cfg.PreselectCount(),
				},
			})
		},
	}
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var (
		dataFile   string
		focusCount int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings (only the flags you set change)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("data-file") && !cmd.Flags().Changed("focus-count") {
				return writeErr(cmd, fmt.Errorf("nothing to set; pass --data-file or --focus-count"))
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("data-file") {
				cfg.DataFile = strings.TrimSpace(dataFile)
			}
			if cmd.Flags().Changed("focus-count") {
				if focusCount < 0 {
					return writeErr(cmd, fmt.Errorf("--focus-count must be zero or positive"))
				}
				cfg.FocusCount = focusCount
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}

	cmd.Flags().StringVar(&dataFile, "data-file", "", "Snapshot path (empty restores the default location)")
	cmd.Flags().IntVar(&focusCount, "focus-count", 0, "How many focus suggestions start selected (0 = default)")
	return cmd
}
