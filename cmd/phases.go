package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/eclipse-cli/internal/domain"
)

// phasesCmd represents the phases command
var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Show the phase cycle",
	Long:  `List the Eclipse Moon phases in order with their length in ticks and seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cycle := app.tracker.Cycle()
		out := cmd.OutOrStdout()

		if jsonOutput {
			var phaseList []map[string]interface{}
			var start time.Duration
			for i, phase := range cycle {
				phaseList = append(phaseList, map[string]interface{}{
					"number":    i + 1,
					"name":      phase.Name,
					"ticks":     phase.Ticks,
					"seconds":   phase.Duration().Seconds(),
					"starts_at": start.Seconds(),
				})
				start += phase.Duration()
			}
			data := map[string]interface{}{
				"phases":        phaseList,
				"tick_seconds":  domain.TickDuration.Seconds(),
				"cycle_seconds": cycle.Duration().Seconds(),
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal phases: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "🌑 Eclipse Moon cycle (1 tick = %s)\n\n", formatSeconds(domain.TickDuration))
		fmt.Fprintf(out, "  %-2s %-12s %6s %9s %10s\n", "#", "Phase", "Ticks", "Length", "Starts at")
		var start time.Duration
		for i, phase := range cycle {
			fmt.Fprintf(out, "  %-2d %-12s %6d %9s %10s\n",
				i+1, phase.Name, phase.Ticks, formatSeconds(phase.Duration()), formatSeconds(start))
			start += phase.Duration()
		}
		fmt.Fprintf(out, "\n  Full cycle: %s\n", formatSeconds(cycle.Duration()))
		return nil
	},
}

// formatSeconds formats a duration as seconds with one decimal, like "39.6s".
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
