package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/index"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the analysis pipeline over every session",
	Long: `Process analyzes every session log under the session directory,
writes per-session artifacts and index entries, and finishes with a
cross-session summary CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, warnings, err := analysis.LoadDirectory(cfg.SessionDir)
		for _, w := range warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}
		if err != nil {
			if errors.Is(err, analysis.ErrNoSessions) {
				cmd.Printf("No sessions found in %s\n", cfg.SessionDir)
				return nil
			}
			return err
		}

		store, err := index.Open(cfg.IndexPath())
		if err != nil {
			return err
		}
		defer store.Close()

		var all []analysis.Statistics
		failed := 0
		for _, data := range sessions {
			r, err := processSession(cmd.Context(), data.Path, cfg.OutputDir, store)
			if err != nil {
				cmd.PrintErrf("warning: %s: %v\n", data.ID, err)
				failed++
				continue
			}
			all = append(all, r.Statistics)
			cmd.Printf("%s  %d events  %.1fs\n", data.ID, r.Statistics.TotalEvents, r.Session.DurationSec)
		}

		if len(all) > 0 {
			summaryPath := filepath.Join(cfg.OutputDir, "sessions_summary.csv")
			f, err := os.Create(summaryPath)
			if err != nil {
				return err
			}
			if err := analysis.WriteSummaryCSV(f, all); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("\nProcessed %d sessions", len(all))
			if failed > 0 {
				cmd.Printf(" (%d failed)", failed)
			}
			cmd.Printf("; summary at %s\n", summaryPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
