package rigid2d

import (
	"github.com/san-kum/rigid2d/handle"
	"github.com/san-kum/rigid2d/internal/kernel"
)

// ShapeClass identifies the geometry a shape carries.
type ShapeClass = kernel.ShapeClass

const (
	ShapeCircle  = kernel.ShapeCircle
	ShapeSegment = kernel.ShapeSegment
	ShapePoly    = kernel.ShapePoly
)

// ShapeHandle is a strong, reference-counted handle to a [Shape]. The
// shape is destroyed when the last strong handle is released.
type ShapeHandle = handle.Handle[Shape]

// WeakShapeHandle observes a shape without keeping it alive.
type WeakShapeHandle = handle.Weak[Shape]

// Shape is the payload behind a [ShapeHandle]: collision geometry bound
// to one body at construction time. The shape holds only a weak
// reference to its owner and never keeps it alive; operations that need
// the owner report [ErrBodyGone] once the body is destroyed, while the
// shape's own accessors keep working.
//
// Like [Body], methods are safe only inside a view obtained from the
// handle.
type Shape struct {
	ref   *kernel.Shape
	owner WeakBodyHandle
}

// destroyShape releases the kernel shape. The owner's write view is held
// while the shape detaches so the mass recomputation cannot race other
// body access.
func destroyShape(s *Shape) {
	if owner, ok := s.owner.Upgrade(); ok {
		defer owner.Release()
		owner.Write(func(*Body) { s.ref.Destroy() })
		return
	}
	s.ref.Destroy()
}

// NewCircle creates a circle shape on body with the given radius, offset
// from the body origin in body-local coordinates. The body handle is
// written to transiently; the returned shape does not keep the body
// alive.
func NewCircle(body *BodyHandle, radius float64, offset Vect) *ShapeHandle {
	var ref *kernel.Shape
	body.Write(func(b *Body) {
		ref = kernel.NewCircle(b.ref, radius, offset)
	})
	return handle.New(Shape{ref: ref, owner: body.Downgrade()}, destroyShape)
}

// NewSegment creates a line segment shape on body from a to b in
// body-local coordinates, thickened by radius.
func NewSegment(body *BodyHandle, a, b Vect, radius float64) *ShapeHandle {
	var ref *kernel.Shape
	body.Write(func(bd *Body) {
		ref = kernel.NewSegment(bd.ref, a, b, radius)
	})
	return handle.New(Shape{ref: ref, owner: body.Downgrade()}, destroyShape)
}

// NewPoly creates a convex polygon shape on body. Vertices are
// body-local, must wind counterclockwise and form a strictly convex
// loop; radius rounds the corners. Invalid vertices are rejected with
// [ErrBadPolygon] before any resource is created.
func NewPoly(body *BodyHandle, verts []Vect, radius float64) (*ShapeHandle, error) {
	var ref *kernel.Shape
	var err error
	body.Write(func(b *Body) {
		ref, err = kernel.NewPoly(b.ref, verts, radius)
	})
	if err != nil {
		return nil, err
	}
	return handle.New(Shape{ref: ref, owner: body.Downgrade()}, destroyShape), nil
}

// NewBox creates an axis-aligned box polygon centered on the body origin.
func NewBox(body *BodyHandle, width, height, radius float64) (*ShapeHandle, error) {
	var ref *kernel.Shape
	var err error
	body.Write(func(b *Body) {
		ref, err = kernel.NewBox(b.ref, width, height, radius)
	})
	if err != nil {
		return nil, err
	}
	return handle.New(Shape{ref: ref, owner: body.Downgrade()}, destroyShape), nil
}

// withOwner runs fn while holding a write view of the owning body, so
// side effects on the body cannot race other body access. The shape's
// state is untouched when the owner is already gone.
func (s *Shape) withOwner(fn func()) error {
	owner, ok := s.owner.Upgrade()
	if !ok {
		return ErrBodyGone
	}
	defer owner.Release()
	owner.Write(func(*Body) { fn() })
	return nil
}

// Class returns the shape's geometry class.
func (s *Shape) Class() ShapeClass { return s.ref.Class() }

// Body returns a new strong handle to the owning body, which the caller
// must release. ok is false once the body has been destroyed.
func (s *Shape) Body() (owner *BodyHandle, ok bool) {
	return s.owner.Upgrade()
}

func (s *Shape) Friction() float64 { return s.ref.Friction() }

// SetFriction rejects negative values with [ErrNegativeFriction],
// leaving the stored coefficient unchanged.
func (s *Shape) SetFriction(u float64) error {
	if u < 0 {
		return ErrNegativeFriction
	}
	s.ref.SetFriction(u)
	return nil
}

func (s *Shape) Elasticity() float64 { return s.ref.Elasticity() }

// SetElasticity rejects negative values with [ErrNegativeElasticity],
// leaving the stored coefficient unchanged.
func (s *Shape) SetElasticity(e float64) error {
	if e < 0 {
		return ErrNegativeElasticity
	}
	s.ref.SetElasticity(e)
	return nil
}

// SurfaceVelocity returns the conveyor-belt velocity of the shape's
// surface, used by the friction solver.
func (s *Shape) SurfaceVelocity() Vect     { return s.ref.SurfaceVelocity() }
func (s *Shape) SetSurfaceVelocity(v Vect) { s.ref.SetSurfaceVelocity(v) }

// Sensor reports whether the shape only detects contacts without
// producing a collision response.
func (s *Shape) Sensor() bool      { return s.ref.Sensor() }
func (s *Shape) SetSensor(on bool) { s.ref.SetSensor(on) }

func (s *Shape) Density() float64 {
	return s.ref.Density()
}

// SetDensity derives the shape's mass from its area and recomputes the
// owning body's mass properties. Reports [ErrBodyGone], changing
// nothing, once the owner has been destroyed.
func (s *Shape) SetDensity(density float64) error {
	return s.withOwner(func() { s.ref.SetDensity(density) })
}

func (s *Shape) Mass() float64 { return s.ref.Mass() }

// SetMass assigns the shape's mass and recomputes the owning body's mass
// properties. Reports [ErrBodyGone], changing nothing, once the owner
// has been destroyed.
func (s *Shape) SetMass(mass float64) error {
	return s.withOwner(func() { s.ref.SetMass(mass) })
}

// Area returns the shape's surface area.
func (s *Shape) Area() float64 { return s.ref.Area() }

// Moment returns the moment of inertia for the shape's current mass
// about its own center of gravity.
func (s *Shape) Moment() float64 { return s.ref.Moment() }

// CenterOfGravity returns the shape's body-local center of gravity.
func (s *Shape) CenterOfGravity() Vect { return s.ref.CenterOfGravity() }

// Circle is the circle view of a shape, see [Shape.Circle].
type Circle struct {
	ref *kernel.Shape
}

// Circle projects the circle variant. ok is false for other classes.
func (s *Shape) Circle() (c Circle, ok bool) {
	if s.ref.Class() != kernel.ShapeCircle {
		return Circle{}, false
	}
	return Circle{s.ref}, true
}

func (c Circle) Radius() float64 { return c.ref.CircleRadius() }

// Offset returns the circle center's body-local offset.
func (c Circle) Offset() Vect { return c.ref.CircleOffset() }

// Segment is the segment view of a shape, see [Shape.Segment].
type Segment struct {
	ref *kernel.Shape
}

// Segment projects the segment variant. ok is false for other classes.
func (s *Shape) Segment() (sg Segment, ok bool) {
	if s.ref.Class() != kernel.ShapeSegment {
		return Segment{}, false
	}
	return Segment{s.ref}, true
}

func (sg Segment) A() Vect         { return sg.ref.SegmentA() }
func (sg Segment) B() Vect         { return sg.ref.SegmentB() }
func (sg Segment) Radius() float64 { return sg.ref.SegmentRadius() }

// Normal returns the segment's body-local unit normal, left of A->B.
func (sg Segment) Normal() Vect { return sg.ref.SegmentNormal() }

// Poly is the polygon view of a shape, see [Shape.Poly].
type Poly struct {
	ref *kernel.Shape
}

// Poly projects the polygon variant. ok is false for other classes.
func (s *Shape) Poly() (p Poly, ok bool) {
	if s.ref.Class() != kernel.ShapePoly {
		return Poly{}, false
	}
	return Poly{s.ref}, true
}

func (p Poly) VertCount() int  { return p.ref.PolyVertCount() }
func (p Poly) Radius() float64 { return p.ref.PolyRadius() }

// Vert returns the i-th body-local vertex, or [ErrVertexRange] when i is
// out of range.
func (p Poly) Vert(i int) (Vect, error) {
	if i < 0 || i >= p.ref.PolyVertCount() {
		return Vect{}, ErrVertexRange
	}
	return p.ref.PolyVert(i), nil
}
