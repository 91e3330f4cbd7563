package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/index"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <session.csv>",
	Short: "Analyze one session log",
	Long: `Analyze computes pointer kinematics for a single session, writes the
metrics CSV, statistics JSON, and overview image under the output directory,
updates the session index, and prints a report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		store, err := index.Open(cfg.IndexPath())
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := processSession(cmd.Context(), path, cfg.OutputDir, store)
		if err != nil {
			return err
		}

		format := analyzeFormat
		if format == "" {
			format = cfg.ReportFormat
		}
		out, err := renderReport(r, format)
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "report format: markdown or json")
	rootCmd.AddCommand(analyzeCmd)
}
