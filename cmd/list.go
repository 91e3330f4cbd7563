package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/index"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyzed sessions from the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.IndexPath()); err != nil {
			if os.IsNotExist(err) {
				cmd.Println("No index yet; run `padlab analyze` or `padlab process` first.")
				return nil
			}
			return err
		}
		store, err := index.Open(cfg.IndexPath())
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			cmd.Println("No sessions indexed.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tSTART\tEVENTS\tDURATION\tDISTANCE\tMEAN SPEED")
		for _, s := range all {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.1fs\t%.0f\t%.1f\n",
				s.SessionID,
				s.StartTime.Format("2006-01-02 15:04:05"),
				s.TotalEvents,
				s.DurationSec,
				s.TotalDistance,
				s.MeanSpeed,
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
