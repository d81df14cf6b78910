package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigid2d/internal/record"
)

// Frame renders one recorded frame's geometry as an SVG document.
// World coordinates are fit to the viewport with a uniform scale so
// circles stay round, with Y flipped to screen orientation.
func Frame(fr *record.Frame, width, height int) string {
	if fr == nil || len(fr.Shapes) == 0 {
		return ""
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range fr.Shapes {
		for _, p := range s.Points {
			minX = math.Min(minX, p[0]-s.Radius)
			maxX = math.Max(maxX, p[0]+s.Radius)
			minY = math.Min(minY, p[1]-s.Radius)
			maxY = math.Max(maxY, p[1]+s.Radius)
		}
	}
	minX, minY, maxX, maxY = pad(minX, minY, maxX, maxY)

	scale := math.Min(float64(width)/(maxX-minX), float64(height)/(maxY-minY))
	offX := (float64(width) - (maxX-minX)*scale) / 2
	offY := (float64(height) - (maxY-minY)*scale) / 2
	px := func(x float64) float64 { return offX + (x-minX)*scale }
	py := func(y float64) float64 { return float64(height) - offY - (y-minY)*scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="none" stroke="#00ff00" stroke-width="1.5">
`, width, height, width, height))

	for _, s := range fr.Shapes {
		switch s.Kind {
		case "circle":
			if len(s.Points) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, px(s.Points[0][0]), py(s.Points[0][1]), s.Radius*scale))
		case "segment":
			if len(s.Points) < 2 {
				continue
			}
			w := math.Max(2*s.Radius*scale, 1.5)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f" stroke-linecap="round"/>
`, px(s.Points[0][0]), py(s.Points[0][1]), px(s.Points[1][0]), py(s.Points[1][1]), w))
		case "poly":
			if len(s.Points) < 3 {
				continue
			}
			pts := make([]string, 0, len(s.Points))
			for _, p := range s.Points {
				pts = append(pts, fmt.Sprintf("%.1f,%.1f", px(p[0]), py(p[1])))
			}
			sb.WriteString(fmt.Sprintf(`<polygon points="%s"/>
`, strings.Join(pts, " ")))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Trajectory renders one body's path across the recorded frames as an
// SVG polyline. The axes are scaled independently, so it reads as a
// plot rather than a spatial snapshot.
func Trajectory(frames []record.Frame, body int, width, height int) string {
	points := make([][2]float64, 0, len(frames))
	for i := range frames {
		if body < len(frames[i].Bodies) {
			b := &frames[i].Bodies[body]
			points = append(points, [2]float64{b.X, b.Y})
		}
	}
	if len(points) < 2 {
		return ""
	}

	minX, minY := points[0][0], points[0][1]
	maxX, maxY := minX, minY
	for _, p := range points {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	minX, minY, maxX, maxY = pad(minX, minY, maxX, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`,
		width, height, width, height))

	for i, p := range points {
		x := (p[0] - minX) / rangeX * float64(width)
		y := float64(height) - (p[1]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// pad widens the bounds by 10% per side, forcing degenerate ranges to
// a unit span first.
func pad(minX, minY, maxX, maxY float64) (float64, float64, float64, float64) {
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, minY - rangeY*0.1, maxX + rangeX*0.1, maxY + rangeY*0.1
}
