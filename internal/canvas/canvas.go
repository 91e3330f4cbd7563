// Package canvas maintains stroke geometry for one drawing surface and
// rasterizes it with the shaded brush: every pair of nearby points within a
// stroke is joined by a distance-attenuated translucent line, which gives
// dense gestures their webbed look.
package canvas

// Shaded brush constants. distThresholdSq is in squared canvas units;
// changing either value changes the rendered artifact, so they are fixed.
const (
	distThresholdSq = 1000.0
	alphaScale      = 0.1
	pressure        = 1.0
)

// Stroke is one pointer-down-to-pointer-up drag path. Points are append-only
// while the stroke is in progress and immutable once completed.
type Stroke []Point

// Canvas owns the completed strokes and the in-progress stroke. It is not
// safe for concurrent use; events arrive serially from the host input layer.
type Canvas struct {
	width   int
	height  int
	strokes []Stroke
	current Stroke
	drawing bool
}

// New creates an empty canvas with the given snapshot dimensions.
func New(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// BeginStroke starts a new in-progress stroke containing one point.
// An unfinished previous stroke is completed first.
func (c *Canvas) BeginStroke(p Point) {
	if c.drawing {
		c.EndStroke()
	}
	c.current = Stroke{p}
	c.drawing = true
}

// AddPoint appends to the in-progress stroke. No-op when no stroke is open.
func (c *Canvas) AddPoint(p Point) {
	if !c.drawing {
		return
	}
	c.current = append(c.current, p)
}

// EndStroke moves the in-progress stroke into the completed list.
// Empty strokes are discarded.
func (c *Canvas) EndStroke() {
	if c.drawing && len(c.current) > 0 {
		c.strokes = append(c.strokes, c.current)
	}
	c.current = nil
	c.drawing = false
}

// Clear discards all completed and in-progress strokes.
func (c *Canvas) Clear() {
	c.strokes = nil
	c.current = nil
	c.drawing = false
}

// StrokeCount returns the number of completed strokes.
func (c *Canvas) StrokeCount() int { return len(c.strokes) }

// Drawing reports whether a stroke is currently in progress.
func (c *Canvas) Drawing() bool { return c.drawing }

// PointCount returns the total number of points across all strokes,
// including the in-progress one.
func (c *Canvas) PointCount() int {
	n := len(c.current)
	for _, s := range c.strokes {
		n += len(s)
	}
	return n
}

// segment is one shaded-brush line with its computed opacity.
type segment struct {
	a, b  Point
	alpha float64
}

// shadedSegments computes the all-pairs connections for a single stroke.
// O(n²) per stroke: strokes are short interactive gestures, not unbounded
// data, and the pairing is what produces the shading.
func shadedSegments(s Stroke) []segment {
	var segs []segment
	for i, p := range s {
		for j := i + 1; j < len(s); j++ {
			q := s[j]
			d2 := p.DistanceSquared(q)
			if d2 >= distThresholdSq {
				continue
			}
			segs = append(segs, segment{
				a:     p,
				b:     q,
				alpha: (1 - d2/distThresholdSq) * alphaScale * pressure,
			})
		}
	}
	return segs
}

// Render rasterizes the canvas onto surface: white background, then every
// completed stroke, then the in-progress stroke. Blending is additive over
// white, so the ordering only determines which stroke issues the draw calls.
func (c *Canvas) Render(surface *Surface) {
	surface.Fill(White)
	for _, s := range c.strokes {
		renderStroke(surface, s)
	}
	if c.drawing {
		renderStroke(surface, c.current)
	}
}

func renderStroke(surface *Surface, s Stroke) {
	for _, seg := range shadedSegments(s) {
		surface.DrawLine(seg.a, seg.b, Black.WithAlpha(seg.alpha))
	}
}

// Snapshot rasterizes the full current canvas state into a new surface,
// for use as a session artifact.
func (c *Canvas) Snapshot() *Surface {
	surface := NewSurface(c.width, c.height)
	c.Render(surface)
	return surface
}
