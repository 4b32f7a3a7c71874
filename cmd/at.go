package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/eclipse-cli/internal/adapters/tui"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/services"
)

// atCmd represents the at command
var atCmd = &cobra.Command{
	Use:   "at <phase> <elapsed>",
	Short: "Compute the phase some time after a selection",
	Long: `Show which phase is active if <phase> was observed <elapsed> ago.

<phase> is a phase name or its position 1-4. <elapsed> is a Go duration
("50s", "2m10.5s") or a number of seconds ("50", "130.5").`,
	Example: `  eclipse at clones 50s
  eclipse at 4 300`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cycle := app.tracker.Cycle()

		phase, err := services.LookupPhase(cycle, args[0])
		if err != nil {
			return err
		}
		elapsed, err := parseElapsed(args[1])
		if err != nil {
			return err
		}

		reading, ok := readingAfter(cycle, phase, elapsed)
		out := cmd.OutOrStdout()

		if jsonOutput {
			data := map[string]interface{}{
				"selected_phase":    cycle.Name(phase),
				"elapsed_seconds":   elapsed.Seconds(),
				"current_phase":     reading.Name,
				"remaining":         domain.FormatRemaining(reading.Remaining),
				"remaining_seconds": reading.Remaining.Seconds(),
				"next_phase":        cycle.Name(reading.Next()),
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal reading: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "Selected %s %s ago\n", cycle.Name(phase), formatSeconds(elapsed))
		tui.ShowReading(out, reading, ok)
		fmt.Fprintf(out, "Next Phase: %s\n", cycle.Name(reading.Next()))
		return nil
	},
}

// readingAfter computes the reading elapsed after phase was selected.
func readingAfter(cycle domain.Cycle, phase domain.PhaseIndex, elapsed time.Duration) (domain.PhaseReading, bool) {
	anchor := time.Unix(0, 0).UTC()
	state, err := domain.CycleState{}.SetPhase(phase, anchor)
	if err != nil {
		return domain.PhaseReading{}, false
	}
	return cycle.ComputeCurrentPhase(state, anchor.Add(elapsed))
}

// maxElapsedSeconds bounds the seconds a time.Duration can hold.
const maxElapsedSeconds = math.MaxInt64 / float64(time.Second)

// parseElapsed accepts a Go duration string or a plain number of seconds.
func parseElapsed(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) >= maxElapsedSeconds {
		return 0, fmt.Errorf("invalid elapsed time %q: use a duration like 50s or a number of seconds", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
