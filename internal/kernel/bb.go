package kernel

// BB is an axis-aligned bounding box.
type BB struct {
	L, B, R, T float64
}

// BBForCircle returns the bounding box of a circle at center c.
func BBForCircle(c Vec, r float64) BB {
	return BB{c.X - r, c.Y - r, c.X + r, c.Y + r}
}

// BBForPoints returns the bounding box of pts grown by r on every side.
func BBForPoints(pts []Vec, r float64) BB {
	if len(pts) == 0 {
		return BB{}
	}
	bb := BB{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < bb.L {
			bb.L = p.X
		}
		if p.X > bb.R {
			bb.R = p.X
		}
		if p.Y < bb.B {
			bb.B = p.Y
		}
		if p.Y > bb.T {
			bb.T = p.Y
		}
	}
	bb.L -= r
	bb.B -= r
	bb.R += r
	bb.T += r
	return bb
}

// Intersects reports whether the two boxes overlap.
func (bb BB) Intersects(o BB) bool {
	return bb.L <= o.R && o.L <= bb.R && bb.B <= o.T && o.B <= bb.T
}

// Width returns the horizontal extent.
func (bb BB) Width() float64 {
	return bb.R - bb.L
}

// Height returns the vertical extent.
func (bb BB) Height() float64 {
	return bb.T - bb.B
}
