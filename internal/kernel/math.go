package kernel

import "math"

// Moment and area formulas for the supported geometries. These are pure
// functions with no resource or concurrency concerns.

// MomentForCircle computes the moment of inertia of a hollow circle with
// inner radius r1, outer radius r2 and center offset from the rotation
// axis.
func MomentForCircle(m, r1, r2 float64, offset Vec) float64 {
	return m * (0.5*(r1*r1+r2*r2) + offset.LengthSq())
}

// AreaForCircle computes the area of a hollow circle.
func AreaForCircle(r1, r2 float64) float64 {
	return math.Pi * math.Abs(r1*r1-r2*r2)
}

// MomentForSegment computes the moment of inertia of a beveled segment
// about the origin of the coordinates a and b are given in.
func MomentForSegment(m float64, a, b Vec, r float64) float64 {
	offset := a.Lerp(b, 0.5)
	length := b.Dist(a) + 2*r
	return m * ((length*length+4*r*r)/12 + offset.LengthSq())
}

// AreaForSegment computes the area of a segment with endcaps.
func AreaForSegment(a, b Vec, r float64) float64 {
	return r * (math.Pi*r + 2*a.Dist(b))
}

// MomentForPoly computes the moment of inertia of a solid polygon shifted
// by offset. The radius parameter is accepted for symmetry with the shape
// constructor; the bevel's contribution is ignored.
func MomentForPoly(m float64, verts []Vec, offset Vec, r float64) float64 {
	if len(verts) == 2 {
		return MomentForSegment(m, verts[0].Add(offset), verts[1].Add(offset), 0)
	}
	var sum1, sum2 float64
	for i := range verts {
		v1 := verts[i].Add(offset)
		v2 := verts[(i+1)%len(verts)].Add(offset)
		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)
		sum1 += a * b
		sum2 += a
	}
	return (m * sum1) / (6 * sum2)
}

// AreaForPoly computes the signed area of a polygon with a bevel radius.
// Counterclockwise winding gives a positive area.
func AreaForPoly(verts []Vec, r float64) float64 {
	var area, perimeter float64
	for i := range verts {
		v1 := verts[i]
		v2 := verts[(i+1)%len(verts)]
		area += v1.Cross(v2)
		perimeter += v1.Dist(v2)
	}
	return r*(math.Pi*r+perimeter) + area/2
}

// CentroidForPoly computes the centroid of a polygon.
func CentroidForPoly(verts []Vec) Vec {
	var sum float64
	var vsum Vec
	for i := range verts {
		v1 := verts[i]
		v2 := verts[(i+1)%len(verts)]
		cross := v1.Cross(v2)
		sum += cross
		vsum = vsum.Add(v1.Add(v2).Mult(cross))
	}
	return vsum.Mult(1 / (3 * sum))
}

// MomentForBox computes the moment of inertia of a solid box centered on
// the rotation axis.
func MomentForBox(m, width, height float64) float64 {
	return m * (width*width + height*height) / 12
}

// validPoly reports whether verts form a strictly convex counterclockwise
// loop of at least three vertices.
func validPoly(verts []Vec) bool {
	if len(verts) < 3 {
		return false
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		c := verts[(i+2)%n]
		if b.Sub(a).Cross(c.Sub(b)) <= 0 {
			return false
		}
	}
	return true
}

func safeInv(f float64) float64 {
	if f > 0 && !math.IsInf(f, 1) {
		return 1 / f
	}
	return 0
}
