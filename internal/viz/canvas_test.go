package viz

import "testing"

func TestCanvasSetOn(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.PixelWidth() != 8 || c.PixelHeight() != 8 {
		t.Fatalf("expected 8x8 pixels, got %dx%d", c.PixelWidth(), c.PixelHeight())
	}

	c.Set(3, 5)
	if !c.On(3, 5) {
		t.Errorf("expected pixel (3,5) on")
	}
	if c.On(3, 4) || c.On(2, 5) {
		t.Errorf("expected neighbors off")
	}

	// Out-of-range writes are dropped, not panics.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 100)
	if c.On(-1, 0) || c.On(100, 100) {
		t.Errorf("expected out-of-range pixels to read off")
	}

	c.Clear()
	if c.On(3, 5) {
		t.Errorf("expected pixel cleared")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(2, 1)
	if got := c.String(); got != "⠀⠀\n" {
		t.Errorf("expected blank braille row, got %q", got)
	}
	c.Set(0, 0)
	if got := c.String(); got != "⠁⠀\n" {
		t.Errorf("expected top-left dot, got %q", got)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 0)
	for x := 0; x <= 7; x++ {
		if !c.On(x, 0) {
			t.Errorf("expected pixel (%d,0) on", x)
		}
	}

	c.Clear()
	c.Line(7, 3, 0, 0)
	if !c.On(7, 3) || !c.On(0, 0) {
		t.Errorf("expected both endpoints on")
	}
}
