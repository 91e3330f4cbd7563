package canvas

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestSinglePointStrokeRendersNothing(t *testing.T) {
	segs := shadedSegments(Stroke{Pt(10, 10)})
	if len(segs) != 0 {
		t.Errorf("single-point stroke produced %d segments, want 0", len(segs))
	}
}

func TestDistantPointsRenderNothing(t *testing.T) {
	// Squared distance exactly at the threshold must not connect.
	a := Pt(0, 0)
	b := Pt(math.Sqrt(distThresholdSq), 0)
	segs := shadedSegments(Stroke{a, b})
	if len(segs) != 0 {
		t.Errorf("points at threshold distance produced %d segments, want 0", len(segs))
	}
}

func TestCoincidentPointsRenderFullBrushAlpha(t *testing.T) {
	segs := shadedSegments(Stroke{Pt(5, 5), Pt(5, 5)})
	if len(segs) != 1 {
		t.Fatalf("coincident pair produced %d segments, want 1", len(segs))
	}
	want := alphaScale * pressure
	if segs[0].alpha != want {
		t.Errorf("alpha = %v, want %v", segs[0].alpha, want)
	}
}

func TestAlphaAttenuatesWithDistance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.Float64Range(0, 31).Draw(rt, "d") // d² < 1000
		segs := shadedSegments(Stroke{Pt(0, 0), Pt(d, 0)})
		if len(segs) != 1 {
			rt.Fatalf("got %d segments, want 1", len(segs))
		}
		want := (1 - d*d/distThresholdSq) * alphaScale * pressure
		if math.Abs(segs[0].alpha-want) > 1e-12 {
			rt.Errorf("alpha = %v, want %v", segs[0].alpha, want)
		}
	})
}

func TestAddPointWithoutBeginIsNoop(t *testing.T) {
	c := New(100, 100)
	c.AddPoint(Pt(1, 1))
	if c.PointCount() != 0 {
		t.Errorf("point count = %d, want 0", c.PointCount())
	}
}

func TestEmptyStrokeDiscardedOnEnd(t *testing.T) {
	c := New(100, 100)
	c.BeginStroke(Pt(1, 1))
	c.EndStroke()
	if c.StrokeCount() != 1 {
		t.Fatalf("stroke with one point should complete, got %d strokes", c.StrokeCount())
	}
	// Ending again without a stroke in progress changes nothing.
	c.EndStroke()
	if c.StrokeCount() != 1 {
		t.Errorf("stroke count = %d after redundant EndStroke, want 1", c.StrokeCount())
	}
}

func TestClearDiscardsAllStrokes(t *testing.T) {
	c := New(100, 100)
	for i := 0; i < 3; i++ {
		c.BeginStroke(Pt(float64(i), 0))
		c.AddPoint(Pt(float64(i), 5))
		c.EndStroke()
	}
	c.BeginStroke(Pt(50, 50))
	c.Clear()

	if c.StrokeCount() != 0 || c.Drawing() || c.PointCount() != 0 {
		t.Errorf("after Clear: strokes=%d drawing=%v points=%d, want all zero",
			c.StrokeCount(), c.Drawing(), c.PointCount())
	}
}

func TestRenderBackgroundIsWhite(t *testing.T) {
	c := New(20, 20)
	s := c.Snapshot()
	px := s.At(0, 0)
	if px.R != 1 || px.G != 1 || px.B != 1 || px.A != 1 {
		t.Errorf("empty canvas pixel = %+v, want opaque white", px)
	}
}

func TestCoincidentPairBlendsInkOverWhite(t *testing.T) {
	c := New(20, 20)
	c.BeginStroke(Pt(10, 10))
	c.AddPoint(Pt(10, 10))
	c.EndStroke()

	s := c.Snapshot()
	px := s.At(10, 10)
	// Black at alpha 0.1 over white leaves a light gray around 0.9.
	if math.Abs(px.R-0.9) > 0.01 {
		t.Errorf("shaded pixel R = %v, want ~0.9", px.R)
	}
	if px.R != px.G || px.G != px.B {
		t.Errorf("shaded pixel not gray: %+v", px)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	build := func() *Canvas {
		c := New(64, 64)
		c.BeginStroke(Pt(5, 5))
		for i := 1; i <= 20; i++ {
			c.AddPoint(Pt(5+float64(i)*2, 5+float64(i)))
		}
		c.EndStroke()
		return c
	}

	a := build().Snapshot()
	b := build().Snapshot()
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between identical renders", x, y)
			}
		}
	}
}

func TestInProgressStrokeIsRendered(t *testing.T) {
	c := New(20, 20)
	c.BeginStroke(Pt(10, 10))
	c.AddPoint(Pt(12, 10))

	s := c.Snapshot()
	if px := s.At(10, 10); px.R >= 1 {
		t.Errorf("in-progress stroke left no ink at (10,10): %+v", px)
	}
}
