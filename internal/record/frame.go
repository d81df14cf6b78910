// Package record captures simulation frames and persists them as runs:
// a directory per run holding metadata and a compressed frame stream,
// plus an optional SQLite index across runs.
package record

import (
	"github.com/san-kum/rigid2d"
)

// Frame is one step's view of a space: per-body state in declaration
// order and per-shape world-space geometry for rendering.
type Frame struct {
	Step   uint64       `json:"step"`
	Time   float64      `json:"time"`
	Energy float64      `json:"energy"`
	Bodies []BodyFrame  `json:"bodies"`
	Shapes []ShapeFrame `json:"shapes"`
}

type BodyFrame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	W        float64 `json:"w"`
	Sleeping bool    `json:"sleeping,omitempty"`
}

// ShapeFrame is a shape flattened to world space: one point for a
// circle center, two for a segment, the hull for a poly.
type ShapeFrame struct {
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points"`
	Radius float64      `json:"radius,omitempty"`
}

// Capture reads one frame out of a space. Energy totals the kinetic
// energy of the dynamic bodies; kinematic and static ones would push it
// to infinity.
func Capture(space *rigid2d.Space, step uint64, t float64) Frame {
	fr := Frame{Step: step, Time: t}
	space.EachBody(func(h *rigid2d.BodyHandle) {
		h.Read(func(b *rigid2d.Body) {
			p, v := b.Position(), b.Velocity()
			fr.Bodies = append(fr.Bodies, BodyFrame{
				X: p.X, Y: p.Y, Angle: b.Angle(),
				VX: v.X, VY: v.Y, W: b.AngularVelocity(),
				Sleeping: b.IsSleeping(),
			})
			if b.Type() == rigid2d.BodyDynamic {
				fr.Energy += b.KineticEnergy()
			}
		})
	})
	space.EachShape(func(h *rigid2d.ShapeHandle) {
		h.Read(func(s *rigid2d.Shape) {
			fr.Shapes = append(fr.Shapes, captureShape(s))
		})
	})
	return fr
}

func captureShape(s *rigid2d.Shape) ShapeFrame {
	fr := ShapeFrame{Kind: kindName(s.Class())}
	owner, ok := s.Body()
	if !ok {
		return fr
	}
	defer owner.Release()

	owner.Read(func(b *rigid2d.Body) {
		switch s.Class() {
		case rigid2d.ShapeCircle:
			c, _ := s.Circle()
			p := b.LocalToWorld(c.Offset())
			fr.Points = [][2]float64{{p.X, p.Y}}
			fr.Radius = c.Radius()
		case rigid2d.ShapeSegment:
			sg, _ := s.Segment()
			pa, pb := b.LocalToWorld(sg.A()), b.LocalToWorld(sg.B())
			fr.Points = [][2]float64{{pa.X, pa.Y}, {pb.X, pb.Y}}
			fr.Radius = sg.Radius()
		case rigid2d.ShapePoly:
			poly, _ := s.Poly()
			fr.Points = make([][2]float64, poly.VertCount())
			for i := range fr.Points {
				v, _ := poly.Vert(i)
				p := b.LocalToWorld(v)
				fr.Points[i] = [2]float64{p.X, p.Y}
			}
			fr.Radius = poly.Radius()
		}
	})
	return fr
}

func kindName(c rigid2d.ShapeClass) string {
	switch c {
	case rigid2d.ShapeCircle:
		return "circle"
	case rigid2d.ShapeSegment:
		return "segment"
	case rigid2d.ShapePoly:
		return "poly"
	}
	return "unknown"
}
