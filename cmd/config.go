package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/eclipse-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration",
	Long:  `Show the effective configuration or the path of the config file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		out := cmd.OutOrStdout()

		if jsonOutput {
			jsonData, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		notifStatus := "off"
		if cfg.Notifications.Enabled {
			notifStatus = "on"
			if cfg.Notifications.Sound {
				notifStatus = "on (with sound)"
			}
		}
		journalStatus := "off"
		if cfg.Storage.Journal {
			journalStatus = "on"
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Refresh interval:  %s\n", cfg.RefreshInterval)
		fmt.Fprintf(out, "    Always on top:     %v\n", cfg.AlwaysOnTop)
		fmt.Fprintf(out, "    Notifications:     %s\n", notifStatus)
		fmt.Fprintf(out, "    Journal:           %s (%s)\n", journalStatus, config.GetDBPath(cfg))
		fmt.Fprintf(out, "    Window command:    %s\n", cfg.Window.Command)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Theme:")
		fmt.Fprintf(out, "    Background:        %s\n", cfg.Theme.Background)
		fmt.Fprintf(out, "    Button:            %s / %s\n", cfg.Theme.Button, cfg.Theme.ButtonHighlight)
		fmt.Fprintf(out, "    Text:              %s / %s\n", cfg.Theme.Text, cfg.Theme.TextHighlight)
		fmt.Fprintf(out, "    Frame:             %s\n", cfg.Theme.Frame)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
