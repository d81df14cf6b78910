package rigid2d

import "github.com/san-kum/rigid2d/internal/kernel"

// MomentForCircle returns the moment of inertia of a circle or annulus
// of mass m with inner radius r1, outer radius r2 and center offset from
// the body origin.
func MomentForCircle(m, r1, r2 float64, offset Vect) float64 {
	return kernel.MomentForCircle(m, r1, r2, offset)
}

// AreaForCircle returns the area of a circle or annulus.
func AreaForCircle(r1, r2 float64) float64 { return kernel.AreaForCircle(r1, r2) }

// MomentForSegment returns the moment of inertia of a thickened segment
// of mass m between a and b.
func MomentForSegment(m float64, a, b Vect, radius float64) float64 {
	return kernel.MomentForSegment(m, a, b, radius)
}

// AreaForSegment returns the area of a thickened segment.
func AreaForSegment(a, b Vect, radius float64) float64 { return kernel.AreaForSegment(a, b, radius) }

// MomentForPoly returns the moment of inertia of a convex polygon of
// mass m, with an extra offset applied to every vertex.
func MomentForPoly(m float64, verts []Vect, offset Vect, radius float64) float64 {
	return kernel.MomentForPoly(m, verts, offset, radius)
}

// AreaForPoly returns the signed area of a convex polygon with rounded
// corners.
func AreaForPoly(verts []Vect, radius float64) float64 { return kernel.AreaForPoly(verts, radius) }

// CentroidForPoly returns the centroid of a convex polygon.
func CentroidForPoly(verts []Vect) Vect { return kernel.CentroidForPoly(verts) }

// MomentForBox returns the moment of inertia of a solid box of mass m
// centered on the body origin.
func MomentForBox(m, width, height float64) float64 { return kernel.MomentForBox(m, width, height) }
