package kernel

import (
	"testing"

	"github.com/alextrubacs/FlowTunnel/config"
)

func TestRenderDimensions(t *testing.T) {
	img := Render(config.Default(), 1.0, 64, 48, false)
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v, want 64x48", b)
	}
}

func TestRenderDeterministic(t *testing.T) {
	cfg := config.Default()
	a := Render(cfg, 2.5, 48, 48, false)
	b := Render(cfg, 2.5, 48, 48, false)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("two renders of the same frame differ")
		}
	}
}

func TestRenderHorizonIsBlack(t *testing.T) {
	cfg := config.Default()
	img := Render(cfg, 1.0, 100, 100, false)
	// Center pixel sits well inside the default event horizon.
	c := img.RGBAAt(50, 50)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("center pixel = %v, want black", c)
	}
	if c.A != 255 {
		t.Errorf("alpha = %d, want 255", c.A)
	}
}

func TestRenderOpaque(t *testing.T) {
	img := Render(config.Default(), 0.5, 16, 16, true)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if img.RGBAAt(x, y).A != 255 {
				t.Fatalf("pixel (%d,%d) not opaque", x, y)
			}
		}
	}
}

func TestRenderZeroSize(t *testing.T) {
	img := Render(config.Default(), 0, 0, 0, false)
	if img == nil {
		t.Fatal("zero-size render returned nil")
	}
}
