package analysis

import (
	"testing"
	"time"

	"github.com/savantlab/padlab/internal/session"
)

func dragSession(t *testing.T, xs ...[]float64) *SessionData {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	var events []session.EventRecord
	ts := start
	for _, stroke := range xs {
		for _, x := range stroke {
			events = append(events, session.PointerEvent(session.KindLeftMouseDragged, ts, x, 100, 0, 0))
			ts = ts.Add(10 * time.Millisecond)
		}
		// A plain move breaks the drag run.
		events = append(events, session.PointerEvent(session.KindMouseMoved, ts, 0, 0, 0, 0))
		ts = ts.Add(10 * time.Millisecond)
	}
	return sessionFromEvents(t, events)
}

func TestSegmentStrokes(t *testing.T) {
	data := dragSession(t, []float64{0, 10, 20}, []float64{100, 90})
	strokes := SegmentStrokes(data)
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	if len(strokes[0]) != 3 || len(strokes[1]) != 2 {
		t.Errorf("stroke lengths = %d, %d", len(strokes[0]), len(strokes[1]))
	}
}

func TestAnalyzeStrokeDirections(t *testing.T) {
	data := dragSession(t, []float64{0, 10, 20, 30})
	r, ok := AnalyzeStroke(SegmentStrokes(data)[0])
	if !ok {
		t.Fatal("stroke should be analyzable")
	}
	if r.InitialDir != 1 {
		t.Errorf("InitialDir = %d, want 1 (right)", r.InitialDir)
	}
	if r.HasReversal() {
		t.Error("monotonic stroke must have no reversal")
	}

	data = dragSession(t, []float64{30, 20, 10})
	r, _ = AnalyzeStroke(SegmentStrokes(data)[0])
	if r.InitialDir != -1 {
		t.Errorf("InitialDir = %d, want -1 (left)", r.InitialDir)
	}
}

func TestAnalyzeStrokeCountsReversals(t *testing.T) {
	// Right, back left, right again: two direction changes.
	data := dragSession(t, []float64{0, 20, 40, 20, 0, 20, 40})
	r, _ := AnalyzeStroke(SegmentStrokes(data)[0])
	if r.ReversalCount != 2 {
		t.Errorf("ReversalCount = %d, want 2", r.ReversalCount)
	}
}

func TestAnalyzeStrokeIgnoresJitter(t *testing.T) {
	// Sub-threshold wiggles around a rightward stroke must not count.
	data := dragSession(t, []float64{0, 10, 9.5, 19, 18.7, 28})
	r, _ := AnalyzeStroke(SegmentStrokes(data)[0])
	if r.InitialDir != 1 {
		t.Errorf("InitialDir = %d, want 1", r.InitialDir)
	}
	if r.ReversalCount != 0 {
		t.Errorf("ReversalCount = %d, want 0", r.ReversalCount)
	}
}

func TestAnalyzeStrokeTooShort(t *testing.T) {
	data := dragSession(t, []float64{5})
	if _, ok := AnalyzeStroke(SegmentStrokes(data)[0]); ok {
		t.Error("single-point stroke must not be analyzable")
	}
}

func TestAnalyzeStrokeVerticalOnly(t *testing.T) {
	// Same x throughout: no horizontal direction at all.
	data := dragSession(t, []float64{50, 50, 50})
	r, ok := AnalyzeStroke(SegmentStrokes(data)[0])
	if !ok {
		t.Fatal("stroke should be analyzable")
	}
	if r.InitialDir != 0 || r.ReversalCount != 0 {
		t.Errorf("vertical stroke = %+v, want zero profile", r)
	}
}

func TestReversalsSummary(t *testing.T) {
	data := dragSession(t,
		[]float64{0, 20, 40},     // right, clean
		[]float64{40, 20, 0},     // left, clean
		[]float64{0, 20, 0},      // right then reversed
		[]float64{40, 20, 40, 0}, // left, two reversals
	)
	s := Reversals(data)
	if s.Strokes != 4 {
		t.Fatalf("Strokes = %d, want 4", s.Strokes)
	}
	if s.WithReversal != 2 {
		t.Errorf("WithReversal = %d, want 2", s.WithReversal)
	}
	if s.StartedRight != 2 || s.StartedLeft != 2 {
		t.Errorf("started right/left = %d/%d, want 2/2", s.StartedRight, s.StartedLeft)
	}
	if s.RightThenReverse != 1 || s.LeftThenReverse != 1 {
		t.Errorf("reversed right/left = %d/%d, want 1/1", s.RightThenReverse, s.LeftThenReverse)
	}
	if want := 3.0 / 4.0; s.AvgReversals != want {
		t.Errorf("AvgReversals = %v, want %v", s.AvgReversals, want)
	}
}

func TestReversalsEmptySession(t *testing.T) {
	data := sessionFromEvents(t, []session.EventRecord{
		session.PointerEvent(session.KindMouseMoved, time.Now(), 1, 2, 0, 0),
	})
	s := Reversals(data)
	if s.Strokes != 0 || s.AvgReversals != 0 {
		t.Errorf("summary = %+v, want empty", s)
	}
}
