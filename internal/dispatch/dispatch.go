// Package dispatch wires the host input layer to the session recorder and
// the drawing canvas. Events arrive serially; the dispatcher performs no
// internal parallelism and owns neither the file handle nor the stroke list.
package dispatch

import (
	"context"

	"github.com/savantlab/padlab/internal/canvas"
	"github.com/savantlab/padlab/internal/session"
)

// EventSource emits raw input events that should be dispatched. The
// in-repo source replays JSONL files; the live macOS tap implements the
// same interface on the host side.
type EventSource interface {
	Stream(ctx context.Context, emit func(session.EventRecord) error) error
}

// EventSourceFunc adapts a function literal to the EventSource interface.
type EventSourceFunc func(ctx context.Context, emit func(session.EventRecord) error) error

// Stream calls the underlying function.
func (f EventSourceFunc) Stream(ctx context.Context, emit func(session.EventRecord) error) error {
	return f(ctx, emit)
}

// Dispatcher forwards every event to the recorder and segments pointer-drag
// runs into canvas strokes: a consecutive run of drag events is one stroke,
// and any other kind ends the stroke in progress.
type Dispatcher struct {
	rec     *session.Recorder
	canvas  *canvas.Canvas
	drawing bool
}

// New composes a dispatcher over an already-constructed recorder and canvas.
func New(rec *session.Recorder, cv *canvas.Canvas) *Dispatcher {
	return &Dispatcher{rec: rec, canvas: cv}
}

// Handle processes one event. Write failures from the recorder are passed
// through for diagnostics but must not stop the caller's input loop; the
// recorder has already dropped the row and stayed open.
func (d *Dispatcher) Handle(e session.EventRecord) error {
	err := d.rec.Record(e)

	if e.Kind.IsDrag() && e.Pos != nil {
		p := canvas.Pt(e.Pos.X, e.Pos.Y)
		if d.drawing {
			d.canvas.AddPoint(p)
		} else {
			d.canvas.BeginStroke(p)
			d.drawing = true
		}
	} else if d.drawing {
		d.canvas.EndStroke()
		d.drawing = false
	}
	return err
}

// Run streams src through Handle until the source is exhausted or ctx is
// cancelled, then completes any stroke left in progress.
func (d *Dispatcher) Run(ctx context.Context, src EventSource) error {
	err := src.Stream(ctx, func(e session.EventRecord) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Dropped rows are non-fatal to the stream.
		if herr := d.Handle(e); herr != nil {
			return nil
		}
		return nil
	})
	d.Finish()
	return err
}

// Recorder exposes the underlying recorder for status display.
func (d *Dispatcher) Recorder() *session.Recorder { return d.rec }

// Canvas exposes the underlying canvas for status display.
func (d *Dispatcher) Canvas() *canvas.Canvas { return d.canvas }

// Finish ends the stroke in progress, if any.
func (d *Dispatcher) Finish() {
	if d.drawing {
		d.canvas.EndStroke()
		d.drawing = false
	}
}

// SnapshotTo renders the current canvas state and writes it as a PNG,
// matching the signature Finalize expects for its snapshot callback.
func (d *Dispatcher) SnapshotTo(path string) error {
	return d.canvas.Snapshot().SavePNG(path)
}
