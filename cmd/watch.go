package cmd

import (
	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/index"
	"github.com/savantlab/padlab/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the session directory and analyze new sessions",
	Long: `Watch observes the session directory and runs the analysis pipeline
on every session log that finishes recording. Sessions that already exist
when the watch starts are left alone. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := index.Open(cfg.IndexPath())
		if err != nil {
			return err
		}
		defer store.Close()

		w, err := watch.New(watch.Options{
			Dir: cfg.SessionDir,
			Process: func(path string) error {
				r, err := processSession(cmd.Context(), path, cfg.OutputDir, store)
				if err != nil {
					return err
				}
				cmd.Printf("%s  %d events  %.1fs\n", r.Session.ID, r.Statistics.TotalEvents, r.Session.DurationSec)
				return nil
			},
			Warn: func(err error) {
				cmd.PrintErrf("warning: %v\n", err)
			},
		})
		if err != nil {
			return err
		}

		cmd.Printf("Watching %s\n", cfg.SessionDir)
		return w.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
