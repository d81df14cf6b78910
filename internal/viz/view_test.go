package viz

import (
	"math"
	"testing"

	"github.com/san-kum/rigid2d/internal/record"
)

func TestViewportProjectFlipsY(t *testing.T) {
	v := Viewport{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	x, y := v.project(0, 0, 100, 100)
	if x != 0 || y != 99 {
		t.Errorf("expected world origin at bottom-left (0,99), got (%d,%d)", x, y)
	}
	x, y = v.project(0, 10, 100, 100)
	if x != 0 || y != 0 {
		t.Errorf("expected top of window at (0,0), got (%d,%d)", x, y)
	}
	x, y = v.project(10, 0, 100, 100)
	if x != 99 || y != 99 {
		t.Errorf("expected bottom-right corner at (99,99), got (%d,%d)", x, y)
	}
}

func TestFitMatchesAspect(t *testing.T) {
	c := NewCanvas(40, 10) // 80x40 pixels, aspect 2:1
	frames := []record.Frame{{
		Shapes: []record.ShapeFrame{
			{Kind: "circle", Points: [][2]float64{{0, 0}}, Radius: 2},
		},
	}}

	v := Fit(c, frames, 1)
	if math.Abs(v.MinY+3) > 1e-12 || math.Abs(v.MaxY-3) > 1e-12 {
		t.Errorf("expected padded Y window [-3,3], got [%v,%v]", v.MinY, v.MaxY)
	}
	// Width doubles to match the pixel aspect, centered on the scene.
	if math.Abs(v.MinX+6) > 1e-12 || math.Abs(v.MaxX-6) > 1e-12 {
		t.Errorf("expected widened X window [-6,6], got [%v,%v]", v.MinX, v.MaxX)
	}
}

func TestFitEmptyFrames(t *testing.T) {
	c := NewCanvas(40, 10)
	v := Fit(c, nil, 0.5)
	if v.width() <= 0 || v.height() <= 0 {
		t.Fatalf("expected positive window, got %+v", v)
	}
	ratio := v.width() / v.height()
	want := float64(c.PixelWidth()) / float64(c.PixelHeight())
	if math.Abs(ratio-want) > 1e-9 {
		t.Errorf("expected aspect %v, got %v", want, ratio)
	}
}

func TestDrawMarksShapes(t *testing.T) {
	c := NewCanvas(40, 10)
	fr := record.Frame{
		Shapes: []record.ShapeFrame{
			{Kind: "circle", Points: [][2]float64{{0, 2}}, Radius: 2},
			{Kind: "segment", Points: [][2]float64{{-5, 0}, {5, 0}}, Radius: 0.2},
			{Kind: "poly", Points: [][2]float64{{6, 0}, {8, 0}, {8, 2}, {6, 2}}},
		},
	}
	frames := []record.Frame{fr}
	v := Fit(c, frames, 0.5)
	Draw(c, v, &fr)

	pw, ph := c.PixelWidth(), c.PixelHeight()
	// Rightmost point of the circle rim.
	if x, y := v.project(2, 2, pw, ph); !c.On(x, y) {
		t.Errorf("expected circle rim pixel (%d,%d) on", x, y)
	}
	// Both segment endpoints.
	if x, y := v.project(-5, 0, pw, ph); !c.On(x, y) {
		t.Errorf("expected segment start pixel (%d,%d) on", x, y)
	}
	if x, y := v.project(5, 0, pw, ph); !c.On(x, y) {
		t.Errorf("expected segment end pixel (%d,%d) on", x, y)
	}
	// A poly corner.
	if x, y := v.project(8, 2, pw, ph); !c.On(x, y) {
		t.Errorf("expected poly corner pixel (%d,%d) on", x, y)
	}
	// The circle interior stays hollow.
	if x, y := v.project(0, 2, pw, ph); c.On(x, y) {
		t.Errorf("expected circle center pixel (%d,%d) off", x, y)
	}
}
