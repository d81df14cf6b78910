package export

import (
	"strings"
	"testing"

	"github.com/san-kum/rigid2d/internal/record"
)

func TestFrameGeometry(t *testing.T) {
	fr := &record.Frame{
		Shapes: []record.ShapeFrame{
			{Kind: "circle", Points: [][2]float64{{0, 5}}, Radius: 1},
			{Kind: "segment", Points: [][2]float64{{-5, 0}, {5, 0}}},
		},
	}

	// Bounds x [-5,5], y [0,6]; 10% padding gives x [-6,6], y [-0.6,6.6],
	// so 240x144 lands on a uniform scale of 20 with no centering offset.
	svg := Frame(fr, 240, 144)

	if !strings.HasPrefix(svg, "<?xml") {
		t.Fatalf("missing xml header: %q", svg[:20])
	}
	if !strings.Contains(svg, `width="240" height="144"`) {
		t.Errorf("viewport attrs missing")
	}
	if !strings.Contains(svg, `<circle cx="120.0" cy="32.0" r="20.0"/>`) {
		t.Errorf("circle misprojected:\n%s", svg)
	}
	if !strings.Contains(svg, `<line x1="20.0" y1="132.0" x2="220.0" y2="132.0"`) {
		t.Errorf("segment misprojected:\n%s", svg)
	}
	// The circle sits above the floor, so its screen y must be smaller.
	if !strings.Contains(svg, `stroke-linecap="round"`) {
		t.Errorf("segment cap missing")
	}
}

func TestFramePoly(t *testing.T) {
	fr := &record.Frame{
		Shapes: []record.ShapeFrame{
			{Kind: "poly", Points: [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}},
		},
	}

	svg := Frame(fr, 120, 120)
	want := `<polygon points="10.0,110.0 110.0,110.0 110.0,10.0 10.0,10.0"/>`
	if !strings.Contains(svg, want) {
		t.Errorf("poly misprojected:\n%s", svg)
	}
}

func TestFrameEmpty(t *testing.T) {
	if got := Frame(nil, 100, 100); got != "" {
		t.Errorf("nil frame: got %q", got)
	}
	if got := Frame(&record.Frame{}, 100, 100); got != "" {
		t.Errorf("shapeless frame: got %q", got)
	}
}

func TestTrajectory(t *testing.T) {
	frames := []record.Frame{
		{Bodies: []record.BodyFrame{{X: 0, Y: 0}}},
		{Bodies: []record.BodyFrame{{X: 1, Y: 1}}},
		{Bodies: []record.BodyFrame{{X: 2, Y: 4}}},
	}

	svg := Trajectory(frames, 0, 100, 100)
	if !strings.Contains(svg, `d="M8.3,91.7`) {
		t.Errorf("path start misprojected:\n%s", svg)
	}
	if !strings.Contains(svg, ` L91.7,8.3`) {
		t.Errorf("path end misprojected:\n%s", svg)
	}
}

func TestTrajectoryTooShort(t *testing.T) {
	frames := []record.Frame{{Bodies: []record.BodyFrame{{X: 1, Y: 1}}}}
	if got := Trajectory(frames, 0, 100, 100); got != "" {
		t.Errorf("single point: got %q", got)
	}
	if got := Trajectory(frames, 5, 100, 100); got != "" {
		t.Errorf("missing body: got %q", got)
	}
}
