// Package cmd provides the CLI commands for the eclipse application.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/eclipse-cli/internal/adapters/tui"
	"github.com/xvierd/eclipse-cli/internal/config"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	noJournal  bool

	// Root command flags
	onTop     bool
	phaseFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eclipse",
	Short: "Eclipse - Eclipse Moon boss phase tracker",
	Long: `Eclipse tracks the four phases of the Eclipse Moon encounter
(Pre-Clones, Clones, Post-Clones, Shield) and counts down to the next one.

Run "eclipse" with no arguments to open the tracker. Press 1-4 when you see
the boss enter a phase and the widget keeps the cycle from there.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTracker,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the selection journal (default: ~/.eclipse/eclipse.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Do not record phase selections")

	rootCmd.Flags().BoolVarP(&onTop, "on-top", "t", false, "Keep the tracker window above other windows")
	rootCmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "Start tracking from this phase immediately (name or 1-4)")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Eclipse CLI\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(atCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runTracker opens the interactive tracker for bare "eclipse".
func runTracker(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the tracker needs an interactive terminal; use \"eclipse phases\" or \"eclipse at\" instead")
	}

	ctx := setupSignalHandler()

	if phaseFlag != "" {
		phase, err := services.LookupPhase(app.tracker.Cycle(), phaseFlag)
		if err != nil {
			return fmt.Errorf("invalid --phase: %w", err)
		}
		if _, err := app.tracker.Select(ctx, phase); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return launchTUI(ctx)
}

// launchTUI wires the display to the tracker, notifier and window manager.
func launchTUI(ctx context.Context) error {
	display := tui.NewDisplay(app.tracker, app.windows, &app.config.Theme, app.config.Refresh())

	display.SetAlwaysOnTop(onTop || app.config.AlwaysOnTop)

	// Tab in the tracker toggles notifications and persists to config
	var saveErr error
	display.SetNotifications(app.config.Notifications.Enabled, notificationToggle(config.Save, &saveErr))

	display.SetOnTransition(func(reading domain.PhaseReading) {
		if err := app.notifier.NotifyTransition(reading); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: notification failed: %v\n", err)
		}
	})

	runErr := display.Run(ctx)
	if saveErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: notification setting not saved: %v\n", saveErr)
	}
	if runErr != nil {
		return fmt.Errorf("tracker error: %w", runErr)
	}
	return nil
}

// notificationToggle returns the tab handler. The outcome of the last save
// is kept in saveErr so it can be reported once the screen is released.
func notificationToggle(save func(*config.Config) error, saveErr *error) func(bool) {
	return func(enabled bool) {
		app.config.Notifications.Enabled = enabled
		app.notifier.SetEnabled(enabled)
		if err := save(app.config); err != nil {
			*saveErr = fmt.Errorf("failed to save config: %w", err)
		} else {
			*saveErr = nil
		}
	}
}
