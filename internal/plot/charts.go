package plot

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/savantlab/padlab/internal/analysis"
	"github.com/savantlab/padlab/internal/canvas"
)

// Trajectory draws the pointer path, colored from blue (session start) to
// red (session end), with start and end markers.
func Trajectory(samples []analysis.Sample, width, height int) *image.RGBA {
	c := newChart(width, height)
	if len(samples) == 0 {
		c.label(marginLeft, height/2, "no pointer data")
		return c.image()
	}

	xMin, xMax := samples[0].X, samples[0].X
	yMin, yMax := samples[0].Y, samples[0].Y
	for _, s := range samples {
		xMin = math.Min(xMin, s.X)
		xMax = math.Max(xMax, s.X)
		yMin = math.Min(yMin, s.Y)
		yMax = math.Max(yMax, s.Y)
	}
	f := newFrame(width, height, xMin, xMax, yMin, yMax)
	c.drawFrame(f, "pointer trajectory", "x", "y")

	n := len(samples)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n-1)
		col := canvas.RGBA{R: t, B: 1 - t, A: 1}
		a := canvas.Pt(f.mapX(samples[i-1].X), f.mapY(samples[i-1].Y))
		b := canvas.Pt(f.mapX(samples[i].X), f.mapY(samples[i].Y))
		c.surf.DrawLine(a, b, col)
	}

	marker(c.surf, f.mapX(samples[0].X), f.mapY(samples[0].Y), canvas.RGBA{G: 0.6, A: 1})
	marker(c.surf, f.mapX(samples[n-1].X), f.mapY(samples[n-1].Y), canvas.RGBA{R: 0.9, A: 1})
	return c.image()
}

// marker draws a small filled square centered on a point.
func marker(s *canvas.Surface, x, y float64, col canvas.RGBA) {
	cx, cy := int(x), int(y)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			s.SetPixel(cx+dx, cy+dy, col)
		}
	}
}

// SpeedSeries draws pointer speed over session time.
func SpeedSeries(samples []analysis.Sample, width, height int) *image.RGBA {
	c := newChart(width, height)
	if len(samples) == 0 {
		c.label(marginLeft, height/2, "no pointer data")
		return c.image()
	}

	maxSpeed := 0.0
	for _, s := range samples {
		maxSpeed = math.Max(maxSpeed, s.Speed)
	}
	f := newFrame(width, height, 0, samples[len(samples)-1].TimeDelta, 0, maxSpeed)
	c.drawFrame(f, "speed over time", "t (s)", "px/s")

	lineColor := canvas.RGBA{B: 0.7, A: 1}
	for i := 1; i < len(samples); i++ {
		a := canvas.Pt(f.mapX(samples[i-1].TimeDelta), f.mapY(samples[i-1].Speed))
		b := canvas.Pt(f.mapX(samples[i].TimeDelta), f.mapY(samples[i].Speed))
		c.surf.DrawLine(a, b, lineColor)
	}
	return c.image()
}

// Heatmap draws a 2D histogram of pointer positions on a hot color ramp.
func Heatmap(samples []analysis.Sample, width, height int) *image.RGBA {
	c := newChart(width, height)
	if len(samples) == 0 {
		c.label(marginLeft, height/2, "no pointer data")
		return c.image()
	}

	xMin, xMax := samples[0].X, samples[0].X
	yMin, yMax := samples[0].Y, samples[0].Y
	for _, s := range samples {
		xMin = math.Min(xMin, s.X)
		xMax = math.Max(xMax, s.X)
		yMin = math.Min(yMin, s.Y)
		yMax = math.Max(yMax, s.Y)
	}
	f := newFrame(width, height, xMin, xMax, yMin, yMax)

	const gridX, gridY = 48, 32
	counts := make([]int, gridX*gridY)
	maxCount := 0
	for _, s := range samples {
		gx := int((s.X - f.xMin) / (f.xMax - f.xMin) * gridX)
		gy := int((s.Y - f.yMin) / (f.yMax - f.yMin) * gridY)
		if gx >= gridX {
			gx = gridX - 1
		}
		if gy >= gridY {
			gy = gridY - 1
		}
		counts[gy*gridX+gx]++
		if counts[gy*gridX+gx] > maxCount {
			maxCount = counts[gy*gridX+gx]
		}
	}

	cellW := float64(f.plotWidth()) / gridX
	cellH := float64(f.plotHeight()) / gridY
	for gy := 0; gy < gridY; gy++ {
		for gx := 0; gx < gridX; gx++ {
			n := counts[gy*gridX+gx]
			if n == 0 {
				continue
			}
			col := hotRamp(float64(n) / float64(maxCount))
			x0 := marginLeft + int(float64(gx)*cellW)
			// Grid row 0 is the y-min edge, which sits at the bottom.
			y0 := marginTop + int(float64(gridY-1-gy)*cellH)
			for py := y0; py < y0+int(cellH)+1; py++ {
				for px := x0; px < x0+int(cellW)+1; px++ {
					c.surf.SetPixel(px, py, col)
				}
			}
		}
	}

	c.drawFrame(f, "position heatmap", "x", "y")
	return c.image()
}

// hotRamp maps t in [0, 1] onto a black-red-yellow-white ramp.
func hotRamp(t float64) canvas.RGBA {
	t = math.Max(0, math.Min(1, t))
	switch {
	case t < 1.0/3:
		return canvas.RGBA{R: t * 3, A: 1}
	case t < 2.0/3:
		return canvas.RGBA{R: 1, G: (t - 1.0/3) * 3, A: 1}
	default:
		return canvas.RGBA{R: 1, G: 1, B: (t - 2.0/3) * 3, A: 1}
	}
}

// EventDistribution draws a bar per event kind, tallest first.
func EventDistribution(s *analysis.SessionData, width, height int) *image.RGBA {
	c := newChart(width, height)
	counts := s.EventTypeCounts()
	if len(counts) == 0 {
		c.label(marginLeft, height/2, "no events")
		return c.image()
	}

	type kindCount struct {
		kind  string
		count int
	}
	kinds := make([]kindCount, 0, len(counts))
	maxCount := 0
	for k, n := range counts {
		kinds = append(kinds, kindCount{kind: string(k), count: n})
		if n > maxCount {
			maxCount = n
		}
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].count != kinds[j].count {
			return kinds[i].count > kinds[j].count
		}
		return kinds[i].kind < kinds[j].kind
	})

	f := newFrame(width, height, 0, float64(len(kinds)), 0, float64(maxCount))
	c.drawFrame(f, "event distribution", "", "count")

	barColor := canvas.RGBA{R: 0.2, G: 0.4, B: 0.7, A: 1}
	slot := float64(f.plotWidth()) / float64(len(kinds))
	for i, kc := range kinds {
		x0 := marginLeft + int(float64(i)*slot+slot*0.15)
		x1 := marginLeft + int(float64(i)*slot+slot*0.85)
		yTop := int(f.mapY(float64(kc.count)))
		yBase := height - marginBottom
		for py := yTop; py < yBase; py++ {
			for px := x0; px < x1; px++ {
				c.surf.SetPixel(px, py, barColor)
			}
		}
		name := kc.kind
		if len(name) > 8 {
			name = name[:8]
		}
		c.label(x0, yBase+15, name)
		c.label(x0, yTop-3, fmt.Sprintf("%d", kc.count))
	}
	return c.image()
}

// Overview composes the four charts into one 2x2 grid image.
func Overview(s *analysis.SessionData, samples []analysis.Sample) *image.RGBA {
	const tileW, tileH = 480, 360
	tiles := []*image.RGBA{
		Trajectory(samples, tileW, tileH),
		SpeedSeries(samples, tileW, tileH),
		Heatmap(samples, tileW, tileH),
		EventDistribution(s, tileW, tileH),
	}

	out := image.NewRGBA(image.Rect(0, 0, tileW*2, tileH*2))
	for i, tile := range tiles {
		x := (i % 2) * tileW
		y := (i / 2) * tileH
		r := image.Rect(x, y, x+tileW, y+tileH)
		draw.Draw(out, r, tile, image.Point{}, draw.Src)
	}
	return out
}
