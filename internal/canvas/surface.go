package canvas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
)

// RGBA is a color with components in the [0, 1] range.
type RGBA struct {
	R, G, B, A float64
}

var (
	// White is the canvas background color.
	White = RGBA{R: 1, G: 1, B: 1, A: 1}
	// Black is the brush ink color.
	Black = RGBA{R: 0, G: 0, B: 0, A: 1}
)

// WithAlpha returns the color with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Surface is a software RGBA pixel buffer. All drawing the renderer does
// goes through BlendPixel, so output is deterministic for a given input.
type Surface struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel
}

// NewSurface creates a surface with the given dimensions, fully transparent.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int { return s.height }

// Fill sets every pixel to c, discarding previous content.
func (s *Surface) Fill(c RGBA) {
	r := clamp255(c.R * 255)
	g := clamp255(c.G * 255)
	b := clamp255(c.B * 255)
	a := clamp255(c.A * 255)
	for i := 0; i < len(s.data); i += 4 {
		s.data[i+0] = r
		s.data[i+1] = g
		s.data[i+2] = b
		s.data[i+3] = a
	}
}

// At returns the color of a single pixel. Out-of-bounds reads are transparent.
func (s *Surface) At(x, y int) RGBA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return RGBA{}
	}
	i := (y*s.width + x) * 4
	return RGBA{
		R: float64(s.data[i+0]) / 255,
		G: float64(s.data[i+1]) / 255,
		B: float64(s.data[i+2]) / 255,
		A: float64(s.data[i+3]) / 255,
	}
}

// SetPixel writes a pixel without blending. Out-of-bounds writes are dropped.
func (s *Surface) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	i := (y*s.width + x) * 4
	s.data[i+0] = clamp255(c.R * 255)
	s.data[i+1] = clamp255(c.G * 255)
	s.data[i+2] = clamp255(c.B * 255)
	s.data[i+3] = clamp255(c.A * 255)
}

// BlendPixel composites c over the existing pixel (source-over).
func (s *Surface) BlendPixel(x, y int, c RGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height || c.A <= 0 {
		return
	}
	i := (y*s.width + x) * 4
	dr := float64(s.data[i+0]) / 255
	dg := float64(s.data[i+1]) / 255
	db := float64(s.data[i+2]) / 255
	da := float64(s.data[i+3]) / 255

	outA := c.A + da*(1-c.A)
	if outA <= 0 {
		s.data[i+0], s.data[i+1], s.data[i+2], s.data[i+3] = 0, 0, 0, 0
		return
	}
	s.data[i+0] = clamp255((c.R*c.A + dr*da*(1-c.A)) / outA * 255)
	s.data[i+1] = clamp255((c.G*c.A + dg*da*(1-c.A)) / outA * 255)
	s.data[i+2] = clamp255((c.B*c.A + db*da*(1-c.A)) / outA * 255)
	s.data[i+3] = clamp255(outA * 255)
}

// DrawLine draws a 1px line from a to b, blending c over the surface.
// Bresenham over the rounded endpoints; each pixel is visited once per call.
func (s *Surface) DrawLine(a, b Point, c RGBA) {
	x0 := int(math.Round(a.X))
	y0 := int(math.Round(a.Y))
	x1 := int(math.Round(b.X))
	y1 := int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.BlendPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// ToImage converts the surface to an image.RGBA sharing no storage with it.
// The surface stores straight alpha while image.RGBA is alpha-premultiplied;
// the raw copy is only valid because Fill leaves every pixel fully opaque and
// BlendPixel keeps it that way. Snapshotting an unfilled surface is undefined.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.data)
	return img
}

// EncodePNG writes the surface as PNG to w.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.ToImage())
}

// SavePNG writes the surface as a PNG file at path.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
