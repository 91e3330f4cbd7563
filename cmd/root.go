package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "padlab",
	Short: "Record trackpad sessions and analyze pointer behaviour",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		if dir, _ := cmd.Flags().GetString("session-dir"); dir != "" {
			cfg.SessionDir = dir
		}
		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			cfg.OutputDir = dir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("session-dir", "", "override the session log directory")
	rootCmd.PersistentFlags().String("output-dir", "", "override the analysis output directory")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
