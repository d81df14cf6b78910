package kernel

// ShapeClass identifies the geometry a shape carries.
type ShapeClass int

const (
	ShapeCircle ShapeClass = iota
	ShapeSegment
	ShapePoly
)

func (c ShapeClass) String() string {
	switch c {
	case ShapeCircle:
		return "circle"
	case ShapeSegment:
		return "segment"
	case ShapePoly:
		return "poly"
	}
	return "unknown"
}

// shapeMassInfo is a shape's contribution to its body's mass properties.
// The moment is for unit mass about the shape's own center of gravity.
type shapeMassInfo struct {
	m    float64
	i    float64
	cog  Vec
	area float64
}

// Shape is a collision shape attached to a body. Like Body it carries no
// locking; the layer above serializes access.
type Shape struct {
	id    uint64
	class ShapeClass
	body  *Body
	space *Space

	e        float64 // elasticity
	u        float64 // friction
	surfaceV Vec
	sensor   bool

	density float64
	mass    float64

	bb BB

	// circle
	c Vec
	r float64

	// segment
	sa, sb Vec
	sn     Vec // unit normal, left of a->b

	// poly
	verts []Vec
}

func newShape(body *Body, class ShapeClass) *Shape {
	s := &Shape{class: class, body: body}
	body.shapes = append(body.shapes, s)
	s.id = register(s)
	return s
}

// NewCircle creates a circle shape on body with the given radius, offset
// from the body origin in body-local coordinates.
func NewCircle(body *Body, radius float64, offset Vec) *Shape {
	s := newShape(body, ShapeCircle)
	s.c = offset
	s.r = radius
	return s
}

// NewSegment creates a line segment shape on body from a to b in
// body-local coordinates, thickened by radius.
func NewSegment(body *Body, a, b Vec, radius float64) *Shape {
	s := newShape(body, ShapeSegment)
	s.sa = a
	s.sb = b
	s.sn = b.Sub(a).Normalize().Perp()
	s.r = radius
	return s
}

// NewPoly creates a convex polygon shape on body. Vertices must wind
// counterclockwise with no three collinear; radius rounds the corners.
func NewPoly(body *Body, verts []Vec, radius float64) (*Shape, error) {
	if !validPoly(verts) {
		return nil, ErrBadPoly
	}
	s := newShape(body, ShapePoly)
	s.verts = append([]Vec(nil), verts...)
	s.r = radius
	return s, nil
}

// NewBox creates an axis-aligned box polygon centered on the body origin.
func NewBox(body *Body, width, height, radius float64) (*Shape, error) {
	hw, hh := width/2, height/2
	return NewPoly(body, []Vec{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}, radius)
}

// Destroy releases the shape, detaching it from its body. Destroying a
// shape twice, or while it is still added to a space, panics.
func (s *Shape) Destroy() {
	if s.space != nil {
		panic("kernel: destroy of shape still in a space")
	}
	unregister(s.id, "shape")
	if b := s.body; b != nil {
		for i, bs := range b.shapes {
			if bs == s {
				b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
				break
			}
		}
		s.body = nil
		b.accumulateMassFromShapes()
	}
}

// ID returns the shape's unique kernel identity.
func (s *Shape) ID() uint64 { return s.id }

// Class returns the shape's geometry class.
func (s *Shape) Class() ShapeClass { return s.class }

// Body returns the owning body, or nil if the body has been destroyed.
func (s *Shape) Body() *Body { return s.body }

// BB returns the shape's last cached world bounding box.
func (s *Shape) BB() BB { return s.bb }

func (s *Shape) Elasticity() float64     { return s.e }
func (s *Shape) SetElasticity(e float64) { s.e = e }

func (s *Shape) Friction() float64     { return s.u }
func (s *Shape) SetFriction(u float64) { s.u = u }

func (s *Shape) SurfaceVelocity() Vec     { return s.surfaceV }
func (s *Shape) SetSurfaceVelocity(v Vec) { s.surfaceV = v }

func (s *Shape) Sensor() bool     { return s.sensor }
func (s *Shape) SetSensor(b bool) { s.sensor = b }

func (s *Shape) Density() float64 { return s.density }

// SetDensity derives the shape's mass from its area and recomputes the
// owning body's mass properties.
func (s *Shape) SetDensity(density float64) {
	s.density = density
	s.mass = density * s.area()
	s.body.accumulateMassFromShapes()
}

func (s *Shape) Mass() float64 { return s.mass }

// SetMass assigns the shape's mass and recomputes the owning body's mass
// properties.
func (s *Shape) SetMass(mass float64) {
	s.mass = mass
	if a := s.area(); a > 0 {
		s.density = mass / a
	}
	s.body.accumulateMassFromShapes()
}

// Area returns the shape's surface area.
func (s *Shape) Area() float64 { return s.area() }

// Moment returns the moment of inertia for the shape's current mass about
// its own center of gravity.
func (s *Shape) Moment() float64 {
	return s.mass * s.massInfo().i
}

// CenterOfGravity returns the shape's body-local center of gravity.
func (s *Shape) CenterOfGravity() Vec { return s.massInfo().cog }

// Circle geometry. Valid only for ShapeCircle.
func (s *Shape) CircleRadius() float64 { return s.r }
func (s *Shape) CircleOffset() Vec     { return s.c }

// Segment geometry. Valid only for ShapeSegment.
func (s *Shape) SegmentA() Vec          { return s.sa }
func (s *Shape) SegmentB() Vec          { return s.sb }
func (s *Shape) SegmentNormal() Vec     { return s.sn }
func (s *Shape) SegmentRadius() float64 { return s.r }

// Poly geometry. Valid only for ShapePoly.
func (s *Shape) PolyVertCount() int  { return len(s.verts) }
func (s *Shape) PolyVert(i int) Vec  { return s.verts[i] }
func (s *Shape) PolyRadius() float64 { return s.r }

func (s *Shape) area() float64 {
	switch s.class {
	case ShapeCircle:
		return AreaForCircle(0, s.r)
	case ShapeSegment:
		return AreaForSegment(s.sa, s.sb, s.r)
	case ShapePoly:
		return AreaForPoly(s.verts, s.r)
	}
	return 0
}

func (s *Shape) massInfo() shapeMassInfo {
	switch s.class {
	case ShapeCircle:
		return shapeMassInfo{
			m:    s.mass,
			i:    MomentForCircle(1, 0, s.r, Vec{}),
			cog:  s.c,
			area: AreaForCircle(0, s.r),
		}
	case ShapeSegment:
		// Box approximation about the segment's own midpoint.
		return shapeMassInfo{
			m:    s.mass,
			i:    MomentForBox(1, s.sa.Dist(s.sb)+2*s.r, 2*s.r),
			cog:  s.sa.Lerp(s.sb, 0.5),
			area: AreaForSegment(s.sa, s.sb, s.r),
		}
	case ShapePoly:
		cog := CentroidForPoly(s.verts)
		return shapeMassInfo{
			m:    s.mass,
			i:    MomentForPoly(1, s.verts, cog.Neg(), s.r),
			cog:  cog,
			area: AreaForPoly(s.verts, s.r),
		}
	}
	return shapeMassInfo{}
}

// cacheBB refreshes the shape's world bounding box from its body's
// current transform. Shapes whose body is gone keep their last box.
func (s *Shape) cacheBB() BB {
	b := s.body
	if b == nil {
		return s.bb
	}
	switch s.class {
	case ShapeCircle:
		s.bb = BBForCircle(b.LocalToWorld(s.c), s.r)
	case ShapeSegment:
		a := b.LocalToWorld(s.sa)
		bp := b.LocalToWorld(s.sb)
		s.bb = BBForPoints([]Vec{a, bp}, s.r)
	case ShapePoly:
		world := make([]Vec, len(s.verts))
		for i, v := range s.verts {
			world[i] = b.LocalToWorld(v)
		}
		s.bb = BBForPoints(world, s.r)
	}
	return s.bb
}

// worldVerts appends the polygon's vertices in world coordinates.
func (s *Shape) worldVerts(dst []Vec) []Vec {
	for _, v := range s.verts {
		dst = append(dst, s.body.LocalToWorld(v))
	}
	return dst
}
