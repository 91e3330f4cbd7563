// Package plot renders analysis charts as PNG images using the canvas
// surface and a bitmap font. Charts are functional renderings for quick
// inspection, not publication graphics.
package plot

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/savantlab/padlab/internal/canvas"
)

const (
	marginLeft   = 50
	marginRight  = 15
	marginTop    = 25
	marginBottom = 35
)

var (
	axisColor = canvas.RGBA{R: 0.3, G: 0.3, B: 0.3, A: 1}
	gridColor = canvas.RGBA{R: 0.85, G: 0.85, B: 0.85, A: 1}
)

type label struct {
	x, y int
	text string
}

// chart couples a drawing surface with text labels applied after
// rasterization, since the surface itself only draws pixels and lines.
type chart struct {
	surf   *canvas.Surface
	labels []label
}

func newChart(width, height int) *chart {
	c := &chart{surf: canvas.NewSurface(width, height)}
	c.surf.Fill(canvas.White)
	return c
}

func (c *chart) label(x, y int, text string) {
	c.labels = append(c.labels, label{x: x, y: y, text: text})
}

// image rasterizes the surface and draws the accumulated labels on top.
func (c *chart) image() *image.RGBA {
	img := c.surf.ToImage()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
	}
	for _, l := range c.labels {
		d.Dot = fixed.P(l.x, l.y)
		d.DrawString(l.text)
	}
	return img
}

// frame maps a data range onto the chart's plot area.
type frame struct {
	width, height          int
	xMin, xMax, yMin, yMax float64
}

func newFrame(width, height int, xMin, xMax, yMin, yMax float64) frame {
	// A degenerate range still needs a nonzero span to map onto pixels.
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	return frame{width: width, height: height, xMin: xMin, xMax: xMax, yMin: yMin, yMax: yMax}
}

func (f frame) plotWidth() int  { return f.width - marginLeft - marginRight }
func (f frame) plotHeight() int { return f.height - marginTop - marginBottom }

// mapX converts a data x into a pixel column.
func (f frame) mapX(v float64) float64 {
	return float64(marginLeft) + (v-f.xMin)/(f.xMax-f.xMin)*float64(f.plotWidth())
}

// mapY converts a data y into a pixel row. Larger values draw higher up.
func (f frame) mapY(v float64) float64 {
	return float64(marginTop) + (1-(v-f.yMin)/(f.yMax-f.yMin))*float64(f.plotHeight())
}

// drawFrame draws the plot border, title, and min/max axis annotations.
func (c *chart) drawFrame(f frame, title, xLabel, yLabel string) {
	left := float64(marginLeft)
	right := float64(f.width - marginRight)
	top := float64(marginTop)
	bottom := float64(f.height - marginBottom)

	c.surf.DrawLine(canvas.Pt(left, top), canvas.Pt(right, top), axisColor)
	c.surf.DrawLine(canvas.Pt(left, bottom), canvas.Pt(right, bottom), axisColor)
	c.surf.DrawLine(canvas.Pt(left, top), canvas.Pt(left, bottom), axisColor)
	c.surf.DrawLine(canvas.Pt(right, top), canvas.Pt(right, bottom), axisColor)

	c.label(marginLeft, marginTop-8, title)
	c.label(marginLeft, f.height-marginBottom+15, formatTick(f.xMin))
	tick := formatTick(f.xMax)
	c.label(f.width-marginRight-7*len(tick), f.height-marginBottom+15, tick)
	c.label(2, f.height-marginBottom, formatTick(f.yMin))
	c.label(2, marginTop+12, formatTick(f.yMax))
	c.label(marginLeft+f.plotWidth()/2-7*len(xLabel)/2, f.height-8, xLabel)
	c.label(2, marginTop-8, yLabel)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// SavePNG writes an image to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode plot %s: %w", path, err)
	}
	return f.Close()
}

// OverviewFilename returns the conventional overview image name for a
// session.
func OverviewFilename(sessionID string) string {
	return fmt.Sprintf("%s_overview.png", sessionID)
}
