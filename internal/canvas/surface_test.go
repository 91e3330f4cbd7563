package canvas

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBlendPixelSourceOver(t *testing.T) {
	s := NewSurface(4, 4)
	s.Fill(White)
	s.BlendPixel(1, 1, Black.WithAlpha(0.5))

	px := s.At(1, 1)
	if px.R < 0.49 || px.R > 0.51 {
		t.Errorf("blended R = %v, want ~0.5", px.R)
	}
	if px.A != 1 {
		t.Errorf("blended A = %v, want 1 (opaque destination)", px.A)
	}
}

func TestBlendPixelOutOfBoundsIsDropped(t *testing.T) {
	s := NewSurface(4, 4)
	s.Fill(White)
	s.BlendPixel(-1, 0, Black)
	s.BlendPixel(0, 4, Black)
	if px := s.At(0, 0); px != White {
		t.Errorf("out-of-bounds blend leaked into (0,0): %+v", px)
	}
}

func TestDrawLineCoversEndpoints(t *testing.T) {
	s := NewSurface(10, 10)
	s.Fill(White)
	s.DrawLine(Pt(1, 1), Pt(8, 6), Black)

	for _, at := range []struct{ x, y int }{{1, 1}, {8, 6}} {
		if px := s.At(at.x, at.y); px.R != 0 {
			t.Errorf("endpoint (%d,%d) not drawn: %+v", at.x, at.y, px)
		}
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	s := NewSurface(8, 8)
	s.Fill(White)
	s.SetPixel(3, 3, Black)

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 8 {
		t.Errorf("decoded width = %d, want 8", got)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel (3,3) = %d,%d,%d, want black", r, g, b)
	}
}
