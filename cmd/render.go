package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/canvas"
	"github.com/savantlab/padlab/internal/dispatch"
	"github.com/savantlab/padlab/internal/session"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <session.csv>",
	Short: "Re-render the stroke snapshot from a session log",
	Long: `Render replays a session's drag events through the canvas and writes
the shaded-stroke snapshot PNG, reproducing what a live recording would have
saved. By default the image lands next to the log under the session's stem.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := analysis.LoadSession(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		// An unstarted recorder ignores Record calls, so the dispatcher
		// only paints.
		cv := canvas.New(cfg.CanvasWidth, cfg.CanvasHeight)
		disp := dispatch.New(session.NewRecorder(session.Options{}), cv)
		for _, row := range data.Rows {
			disp.Handle(row.EventRecord)
		}
		disp.Finish()

		out := renderOut
		if out == "" {
			out = session.SnapshotPath(path)
		}
		if err := cv.Snapshot().SavePNG(out); err != nil {
			return err
		}
		cmd.Printf("Rendered %d strokes (%d points) to %s\n", cv.StrokeCount(), cv.PointCount(), out)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output PNG path")
	rootCmd.AddCommand(renderCmd)
}
