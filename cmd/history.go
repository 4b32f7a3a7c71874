package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	historyLimit int
	historyYAML  bool
)

// historyEntry is the exported form of a journaled selection.
type historyEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Phase      int       `json:"phase" yaml:"phase"`
	PhaseName  string    `json:"phase_name" yaml:"phase_name"`
	SelectedAt time.Time `json:"selected_at" yaml:"selected_at"`
}

// historyReport is the document written by --json and --yaml.
type historyReport struct {
	Selections []historyEntry `json:"selections" yaml:"selections"`
	Counts     map[string]int `json:"counts" yaml:"counts"`
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent phase selections",
	Long:  `List the most recent phase selections recorded in the journal, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", historyLimit)
		}

		ctx := context.Background()
		if app.storage == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the selection journal is disabled")
		}

		selections, err := app.tracker.History(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		tally, err := app.tracker.Tally(ctx)
		if err != nil {
			return fmt.Errorf("failed to count selections: %w", err)
		}

		report := buildHistoryReport(selections, tally)
		out := cmd.OutOrStdout()

		switch {
		case jsonOutput:
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal history: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		case historyYAML:
			yamlData, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to marshal history: %w", err)
			}
			fmt.Fprint(out, string(yamlData))
			return nil
		}

		if len(report.Selections) == 0 {
			fmt.Fprintln(out, "No selections recorded.")
			return nil
		}

		fmt.Fprintln(out, "📜 Recent selections")
		for _, entry := range report.Selections {
			fmt.Fprintf(out, "  %s  %s\n", entry.SelectedAt.Local().Format("2006-01-02 15:04:05"), entry.PhaseName)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "📊 Selections by phase")
		for _, t := range tally {
			fmt.Fprintf(out, "  %-12s %d\n", t.PhaseName, t.Count)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of selections to show")
	historyCmd.Flags().BoolVar(&historyYAML, "yaml", false, "Output results in YAML format")
}

func buildHistoryReport(selections []*domain.Selection, tally []domain.PhaseTally) historyReport {
	report := historyReport{
		Selections: make([]historyEntry, 0, len(selections)),
		Counts:     make(map[string]int, len(tally)),
	}
	for _, sel := range selections {
		report.Selections = append(report.Selections, historyEntry{
			ID:         sel.ID,
			Phase:      int(sel.Phase) + 1,
			PhaseName:  sel.PhaseName,
			SelectedAt: sel.SelectedAt,
		})
	}
	for _, t := range tally {
		report.Counts[t.PhaseName] = t.Count
	}
	return report
}
