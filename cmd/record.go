package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/savantlab/padlab/internal/canvas"
	"github.com/savantlab/padlab/internal/dispatch"
	"github.com/savantlab/padlab/internal/session"
	"github.com/savantlab/padlab/internal/tui"
)

var (
	recordRealtime bool
	recordPlain    bool
)

var recordCmd = &cobra.Command{
	Use:   "record <events.jsonl>",
	Short: "Record a session from an event stream",
	Long: `Record reads input events from a JSONL stream (a file argument, or
stdin when omitted), logs them to a new session CSV, and paints drag strokes
onto the canvas. On save it writes the canvas snapshot PNG and the session
manifest next to the log.

With a terminal attached, a status display offers pause/resume/save/discard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		fromFile := len(args) == 1 && args[0] != "-"
		if fromFile {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open event stream: %w", err)
			}
			defer f.Close()
			in = f
		}
		src := &dispatch.ReplaySource{R: in, Realtime: recordRealtime}

		rec := session.NewRecorder(session.Options{
			Dir:       cfg.SessionDir,
			ExportDir: cfg.ExportDir,
		})
		if err := rec.Start(); err != nil {
			return err
		}
		cv := canvas.New(cfg.CanvasWidth, cfg.CanvasHeight)
		disp := dispatch.New(rec, cv)

		// Streaming from stdin leaves no terminal for the status display.
		if recordPlain || !fromFile || !term.IsTerminal(os.Stdin.Fd()) {
			return recordPlainRun(cmd, disp, src)
		}
		return recordTUIRun(cmd, disp, src)
	},
}

// recordPlainRun streams to completion without a display, then saves.
func recordPlainRun(cmd *cobra.Command, disp *dispatch.Dispatcher, src dispatch.EventSource) error {
	if err := disp.Run(cmd.Context(), src); err != nil {
		return err
	}
	if err := disp.Recorder().Finalize(false, disp.SnapshotTo); err != nil {
		return err
	}
	printRecordSummary(cmd, disp, false)
	return nil
}

// recordTUIRun feeds the stream through a channel into the status display,
// which owns pause/resume and finalization.
func recordTUIRun(cmd *cobra.Command, disp *dispatch.Dispatcher, src dispatch.EventSource) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan session.EventRecord)
	streamErr := make(chan error, 1)
	go func() {
		defer close(events)
		streamErr <- src.Stream(ctx, func(e session.EventRecord) error {
			select {
			case events <- e:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	discarded, err := tui.Run(disp, events)
	cancel()
	if err != nil {
		return err
	}
	// The TUI finalized already; a failed stream only matters for diagnostics.
	if serr := <-streamErr; serr != nil && !errors.Is(serr, context.Canceled) {
		cmd.PrintErrf("event stream: %v\n", serr)
	}
	printRecordSummary(cmd, disp, discarded)
	return nil
}

func printRecordSummary(cmd *cobra.Command, disp *dispatch.Dispatcher, discarded bool) {
	rec := disp.Recorder()
	if discarded {
		cmd.Printf("Session discarded; log retained at %s\n", rec.Path())
		return
	}
	cmd.Printf("Session saved: %s\n", rec.Path())
	cmd.Printf("  events:  %d", rec.EventCount())
	if rec.DroppedCount() > 0 {
		cmd.Printf("  (dropped %d)", rec.DroppedCount())
	}
	cmd.Printf("\n  strokes: %d\n", disp.Canvas().StrokeCount())
	cmd.Printf("  snapshot: %s\n", session.SnapshotPath(rec.Path()))
}

func init() {
	recordCmd.Flags().BoolVar(&recordRealtime, "realtime", false, "pace replay by event timestamps")
	recordCmd.Flags().BoolVar(&recordPlain, "plain", false, "disable the status display")
	rootCmd.AddCommand(recordCmd)
}
