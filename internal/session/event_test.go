package session_test

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/savantlab/padlab/internal/session"
)

// Property: pointer rows round-trip through serialization back to the same
// (kind, x, y, dx, dy) tuple.
func TestPointerRowRoundTrip(t *testing.T) {
	kinds := []session.Kind{
		session.KindMouseMoved,
		session.KindLeftMouseDragged,
		session.KindRightMouseDragged,
		session.KindOtherMouseDragged,
	}
	rapid.Check(t, func(rt *rapid.T) {
		kind := kinds[rapid.IntRange(0, 3).Draw(rt, "kind")]
		x := rapid.Float64Range(-1e6, 1e6).Draw(rt, "x")
		y := rapid.Float64Range(-1e6, 1e6).Draw(rt, "y")
		dx := rapid.Float64Range(-1e3, 1e3).Draw(rt, "dx")
		dy := rapid.Float64Range(-1e3, 1e3).Draw(rt, "dy")

		in := session.PointerEvent(kind, time.Now(), x, y, dx, dy)
		out, err := session.ParseRow(string(in.MarshalRow()))
		if err != nil {
			rt.Fatalf("ParseRow: %v", err)
		}

		if out.Kind != kind {
			rt.Errorf("kind = %q, want %q", out.Kind, kind)
		}
		if out.Pos == nil || out.Pos.X != x || out.Pos.Y != y {
			rt.Errorf("pos = %+v, want (%v, %v)", out.Pos, x, y)
		}
		if out.Delta == nil || out.Delta.X != dx || out.Delta.Y != dy {
			rt.Errorf("delta = %+v, want (%v, %v)", out.Delta, dx, dy)
		}
	})
}

func TestTouchRowRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := session.TouchEvent(time.Now(), session.TouchSample{
			ID:          rapid.StringMatching(`[0-9a-f]{1,8}`).Draw(rt, "id"),
			Phase:       rapid.SampledFrom([]string{"began", "moved", "stationary", "ended"}).Draw(rt, "phase"),
			NormalizedX: rapid.Float64Range(0, 1).Draw(rt, "nx"),
			NormalizedY: rapid.Float64Range(0, 1).Draw(rt, "ny"),
			Resting:     rapid.Bool().Draw(rt, "resting"),
		})

		out, err := session.ParseRow(string(in.MarshalRow()))
		if err != nil {
			rt.Fatalf("ParseRow: %v", err)
		}
		if out.Touch == nil {
			rt.Fatal("touch fields missing after round-trip")
		}
		if *out.Touch != *in.Touch {
			rt.Errorf("touch = %+v, want %+v", *out.Touch, *in.Touch)
		}
	})
}

func TestTimestampRoundTripsAtMicrosecondPrecision(t *testing.T) {
	in := session.PointerEvent(session.KindMouseMoved,
		time.Date(2026, 8, 29, 10, 30, 15, 123456000, time.Local), 1, 2, 0, 0)
	out, err := session.ParseRow(string(in.MarshalRow()))
	if err != nil {
		t.Fatalf("ParseRow: %v", err)
	}
	if !out.Time.Equal(in.Time) {
		t.Errorf("timestamp = %v, want %v", out.Time, in.Time)
	}
}

func TestScrollRowLeavesPointerFieldsEmpty(t *testing.T) {
	row := string(session.ScrollEvent(time.Now(), 1.5, -3, 2).MarshalRow())
	parts := strings.Split(strings.TrimRight(row, "\n"), ",")
	// x, y, deltaX, deltaY are columns 2..5.
	for _, i := range []int{2, 3, 4, 5} {
		if parts[i] != "" {
			t.Errorf("column %d = %q in scroll row, want empty", i, parts[i])
		}
	}
	if parts[7] != "1.5" || parts[8] != "-3" {
		t.Errorf("scroll columns = %q,%q, want 1.5,-3", parts[7], parts[8])
	}
}

func TestParseRowRejectsWrongShape(t *testing.T) {
	if _, err := session.ParseRow("a,b,c"); err == nil {
		t.Error("ParseRow accepted a 3-field row")
	}
}

func TestSiblingPathsShareStem(t *testing.T) {
	csv := "/data/session-20260829-103015.csv"
	cases := map[string]string{
		session.SnapshotPath(csv):        "/data/session-20260829-103015.png",
		session.ManifestPath(csv):        "/data/session-20260829-103015.json",
		session.ScreenRecordingPath(csv): "/data/session-20260829-103015.mov",
		session.CameraRecordingPath(csv): "/data/session-20260829-103015-camera.mov",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("sibling path = %q, want %q", got, want)
		}
	}
	if id := session.ID(csv); id != "session-20260829-103015" {
		t.Errorf("ID = %q", id)
	}
}
