package viz

import (
	"math"

	"github.com/san-kum/rigid2d/internal/record"
)

// Viewport maps a world-space window onto canvas pixels. World Y grows
// upward, pixel rows grow downward, so projection flips the Y axis.
// Extents must be positive.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

func (v Viewport) width() float64  { return v.MaxX - v.MinX }
func (v Viewport) height() float64 { return v.MaxY - v.MinY }

// Fit returns a viewport covering every shape in frames, padded by pad
// world units on each side and then widened about its center to match
// the canvas pixel aspect, so one world unit spans the same number of
// pixels on both axes.
func Fit(c *Canvas, frames []record.Frame, pad float64) Viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	seen := false
	for i := range frames {
		for _, s := range frames[i].Shapes {
			for _, p := range s.Points {
				seen = true
				minX = math.Min(minX, p[0]-s.Radius)
				minY = math.Min(minY, p[1]-s.Radius)
				maxX = math.Max(maxX, p[0]+s.Radius)
				maxY = math.Max(maxY, p[1]+s.Radius)
			}
		}
	}
	if !seen {
		minX, minY, maxX, maxY = -1, -1, 1, 1
	}
	v := Viewport{minX - pad, minY - pad, maxX + pad, maxY + pad}
	return v.matchAspect(float64(c.PixelWidth()), float64(c.PixelHeight()))
}

// matchAspect grows the viewport about its center until width:height
// equals pw:ph. It only ever grows, so everything fitted stays visible.
func (v Viewport) matchAspect(pw, ph float64) Viewport {
	w, h := v.width(), v.height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w*ph < h*pw {
		w = h * pw / ph
	} else {
		h = w * ph / pw
	}
	cx := (v.MinX + v.MaxX) / 2
	cy := (v.MinY + v.MaxY) / 2
	return Viewport{cx - w/2, cy - h/2, cx + w/2, cy + h/2}
}

// project maps a world point to pixel coordinates on a pw x ph surface.
func (v Viewport) project(x, y float64, pw, ph int) (int, int) {
	px := (x - v.MinX) / v.width() * float64(pw-1)
	py := (v.MaxY - y) / v.height() * float64(ph-1)
	return int(math.Round(px)), int(math.Round(py))
}

// Draw renders one frame's shapes onto the canvas through the viewport.
func Draw(c *Canvas, v Viewport, fr *record.Frame) {
	pw, ph := c.PixelWidth(), c.PixelHeight()
	for _, s := range fr.Shapes {
		switch s.Kind {
		case "circle":
			if len(s.Points) > 0 {
				drawCircle(c, v, s.Points[0][0], s.Points[0][1], s.Radius, pw, ph)
			}
		case "segment":
			if len(s.Points) > 1 {
				x0, y0 := v.project(s.Points[0][0], s.Points[0][1], pw, ph)
				x1, y1 := v.project(s.Points[1][0], s.Points[1][1], pw, ph)
				c.Line(x0, y0, x1, y1)
			}
		case "poly":
			n := len(s.Points)
			if n < 2 {
				continue
			}
			for i := 0; i < n; i++ {
				j := (i + 1) % n
				x0, y0 := v.project(s.Points[i][0], s.Points[i][1], pw, ph)
				x1, y1 := v.project(s.Points[j][0], s.Points[j][1], pw, ph)
				c.Line(x0, y0, x1, y1)
			}
		}
	}
}

// drawCircle approximates the rim with a polyline whose segment count
// scales with the projected radius, so big circles stay round and tiny
// ones stay cheap.
func drawCircle(c *Canvas, v Viewport, cx, cy, r float64, pw, ph int) {
	pr := r / v.width() * float64(pw)
	steps := int(pr * 2)
	if steps < 8 {
		steps = 8
	}
	if steps > 96 {
		steps = 96
	}
	x0, y0 := v.project(cx+r, cy, pw, ph)
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x1, y1 := v.project(cx+r*math.Cos(a), cy+r*math.Sin(a), pw, ph)
		c.Line(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}
