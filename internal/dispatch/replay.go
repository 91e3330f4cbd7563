package dispatch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/savantlab/padlab/internal/session"
)

// replayEvent is the JSONL wire form of one input event. Only the fields
// meaningful for the event type are present on a line.
type replayEvent struct {
	T       float64  `json:"t"` // seconds since stream start
	Type    string   `json:"type"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	DX      *float64 `json:"dx,omitempty"`
	DY      *float64 `json:"dy,omitempty"`
	Phase   *int     `json:"phase,omitempty"`
	ScrollX *float64 `json:"scroll_dx,omitempty"`
	ScrollY *float64 `json:"scroll_dy,omitempty"`
	Touch   *struct {
		ID      string  `json:"id"`
		Phase   string  `json:"phase"`
		NX      float64 `json:"nx"`
		NY      float64 `json:"ny"`
		Resting bool    `json:"resting"`
	} `json:"touch,omitempty"`
}

// ReplaySource streams events parsed from JSONL, one event object per line.
// With Realtime set, emission is paced by the events' relative t offsets so
// a stored gesture plays back at its original speed.
type ReplaySource struct {
	R        io.Reader
	Realtime bool
}

// Stream implements EventSource. Emitted records carry a zero timestamp so
// the recorder stamps them at append time.
func (s *ReplaySource) Stream(ctx context.Context, emit func(session.EventRecord) error) error {
	scanner := bufio.NewScanner(s.R)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var prev float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var w replayEvent
		if err := json.Unmarshal(line, &w); err != nil {
			return fmt.Errorf("replay line %d: %w", lineNo, err)
		}
		e, err := w.record()
		if err != nil {
			return fmt.Errorf("replay line %d: %w", lineNo, err)
		}

		if s.Realtime && w.T > prev {
			delay := time.Duration((w.T - prev) * float64(time.Second))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		prev = w.T

		if err := emit(e); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// record converts the wire form to an EventRecord.
func (w replayEvent) record() (session.EventRecord, error) {
	kind := session.Kind(w.Type)
	e := session.EventRecord{Kind: kind}

	switch {
	case kind.IsPointer():
		if w.X == nil || w.Y == nil {
			return e, fmt.Errorf("%s event without position", kind)
		}
		e.Pos = &session.XY{X: *w.X, Y: *w.Y}
		if w.DX != nil || w.DY != nil {
			e.Delta = &session.XY{X: deref(w.DX), Y: deref(w.DY)}
		}
	case kind == session.KindScrollWheel:
		e.Scroll = &session.XY{X: deref(w.ScrollX), Y: deref(w.ScrollY)}
		e.Phase = w.Phase
	case kind == session.KindMagnify, kind == session.KindRotate, kind == session.KindSwipe:
		e.Phase = w.Phase
	case kind == session.KindTouch:
		if w.Touch == nil {
			return e, fmt.Errorf("touch event without touch payload")
		}
		e.Touch = &session.TouchSample{
			ID:          w.Touch.ID,
			Phase:       w.Touch.Phase,
			NormalizedX: w.Touch.NX,
			NormalizedY: w.Touch.NY,
			Resting:     w.Touch.Resting,
		}
	default:
		return e, fmt.Errorf("unknown event type %q", w.Type)
	}
	return e, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
