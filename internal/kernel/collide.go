package kernel

import "math"

// collideInfo is the result of narrow-phase collision between two shapes.
// The normal points from the first shape toward the second.
type collideInfo struct {
	n     Vec
	count int
	arr   [2]contact
}

// collide computes contact points between two shapes in world space.
func collide(a, b *Shape) collideInfo {
	// Normalize pair order so each combination is handled once.
	if a.class > b.class {
		info := collide(b, a)
		info.n = info.n.Neg()
		for i := 0; i < info.count; i++ {
			info.arr[i].pa, info.arr[i].pb = info.arr[i].pb, info.arr[i].pa
		}
		return info
	}

	switch {
	case a.class == ShapeCircle && b.class == ShapeCircle:
		return circleToCircle(a, b)
	case a.class == ShapeCircle && b.class == ShapeSegment:
		return circleToSegment(a, b)
	case a.class == ShapeCircle && b.class == ShapePoly:
		return circleToPoly(a, b)
	case a.class == ShapeSegment && b.class == ShapePoly:
		return segmentToPoly(a, b)
	case a.class == ShapePoly && b.class == ShapePoly:
		return polyToPoly(a, b)
	}
	// Thin segments never generate contacts against each other.
	return collideInfo{}
}

func circleToCircle(a, b *Shape) collideInfo {
	c1 := a.body.LocalToWorld(a.c)
	c2 := b.body.LocalToWorld(b.c)

	delta := c2.Sub(c1)
	d := delta.Length()
	dist := d - (a.r + b.r)
	if dist >= 0 {
		return collideInfo{}
	}

	n := Vec{1, 0}
	if d > 0 {
		n = delta.Mult(1 / d)
	}
	info := collideInfo{n: n, count: 1}
	info.arr[0] = contact{
		pa:   c1.Add(n.Mult(a.r)),
		pb:   c2.Sub(n.Mult(b.r)),
		dist: dist,
	}
	return info
}

func circleToSegment(circle, seg *Shape) collideInfo {
	center := circle.body.LocalToWorld(circle.c)
	a := seg.body.LocalToWorld(seg.sa)
	b := seg.body.LocalToWorld(seg.sb)

	closest := closestPointOnSegment(center, a, b)
	delta := closest.Sub(center)
	d := delta.Length()
	dist := d - (circle.r + seg.r)
	if dist >= 0 {
		return collideInfo{}
	}

	var n Vec
	if d > 0 {
		n = delta.Mult(1 / d)
	} else {
		// Center on the segment axis; fall back to the face normal.
		n = seg.sn.Rotate(seg.body.rot).Neg()
	}
	info := collideInfo{n: n, count: 1}
	info.arr[0] = contact{
		pa:   center.Add(n.Mult(circle.r)),
		pb:   closest.Sub(n.Mult(seg.r)),
		dist: dist,
	}
	return info
}

func circleToPoly(circle, poly *Shape) collideInfo {
	center := circle.body.LocalToWorld(circle.c)
	verts := poly.worldVerts(make([]Vec, 0, len(poly.verts)))

	// Face the center is most outside of.
	bestFace := 0
	bestSep := math.Inf(-1)
	for i := range verts {
		if sep := polyFaceNormal(verts, i).Dot(center.Sub(verts[i])); sep > bestSep {
			bestSep = sep
			bestFace = i
		}
	}

	v1 := verts[bestFace]
	v2 := verts[(bestFace+1)%len(verts)]
	closest := closestPointOnSegment(center, v1, v2)

	var n Vec
	var dist float64
	if bestSep > 0 {
		// Center outside the hull: nearest feature is a face or vertex.
		delta := closest.Sub(center)
		d := delta.Length()
		dist = d - (circle.r + poly.r)
		if dist >= 0 {
			return collideInfo{}
		}
		if d > 0 {
			n = delta.Mult(1 / d)
		} else {
			n = polyFaceNormal(verts, bestFace).Neg()
		}
	} else {
		// Center inside the hull: push out through the nearest face.
		n = polyFaceNormal(verts, bestFace).Neg()
		dist = bestSep - (circle.r + poly.r)
	}

	info := collideInfo{n: n, count: 1}
	info.arr[0] = contact{
		pa:   center.Add(n.Mult(circle.r)),
		pb:   closest.Sub(n.Mult(poly.r)),
		dist: dist,
	}
	return info
}

func segmentToPoly(seg, poly *Shape) collideInfo {
	segVerts := []Vec{
		seg.body.LocalToWorld(seg.sa),
		seg.body.LocalToWorld(seg.sb),
	}
	polyVerts := poly.worldVerts(make([]Vec, 0, len(poly.verts)))
	return hullContacts(segVerts, polyVerts, seg.r, poly.r)
}

func polyToPoly(a, b *Shape) collideInfo {
	aVerts := a.worldVerts(make([]Vec, 0, len(a.verts)))
	bVerts := b.worldVerts(make([]Vec, 0, len(b.verts)))
	return hullContacts(aVerts, bVerts, a.r, b.r)
}

// hullContacts runs SAT over two world-space convex loops, then clips the
// incident face against the reference face to produce up to two contact
// points. A two-vertex loop acts as a two-sided segment. The rounding
// radii widen the acceptance distance so rounded shapes touch early.
func hullContacts(aVerts, bVerts []Vec, ra, rb float64) collideInfo {
	faceA, sepA := findMaxSeparation(aVerts, bVerts)
	if sepA-ra-rb >= 0 {
		return collideInfo{}
	}
	faceB, sepB := findMaxSeparation(bVerts, aVerts)
	if sepB-ra-rb >= 0 {
		return collideInfo{}
	}

	// Reference hull is the one with the shallower penetration.
	ref, inc := aVerts, bVerts
	refFace := faceA
	refRad, incRad := ra, rb
	flip := false
	if sepB > sepA {
		ref, inc = bVerts, aVerts
		refFace = faceB
		refRad, incRad = rb, ra
		flip = true
	}
	n := polyFaceNormal(ref, refFace)

	// Incident face: the face of inc least aligned with the reference
	// normal.
	incFace := 0
	incDot := math.Inf(1)
	for i := range inc {
		if d := polyFaceNormal(inc, i).Dot(n); d < incDot {
			incDot = d
			incFace = i
		}
	}
	p1 := inc[incFace]
	p2 := inc[(incFace+1)%len(inc)]

	// Clip the incident face between the reference face's end planes.
	r1 := ref[refFace]
	r2 := ref[(refFace+1)%len(ref)]
	tangent := r2.Sub(r1).Normalize()
	p1, p2, ok := clipSegment(p1, p2, tangent, tangent.Dot(r1))
	if !ok {
		return collideInfo{}
	}
	p1, p2, ok = clipSegment(p1, p2, tangent.Neg(), -tangent.Dot(r2))
	if !ok {
		return collideInfo{}
	}

	var info collideInfo
	info.n = n
	if flip {
		info.n = n.Neg()
	}
	for _, p := range [2]Vec{p1, p2} {
		d := n.Dot(p.Sub(r1))
		dist := d - refRad - incRad
		if dist >= 0 {
			continue
		}
		refPt := p.Sub(n.Mult(d - refRad))
		incPt := p.Sub(n.Mult(incRad))
		c := contact{dist: dist}
		if flip {
			c.pa, c.pb = incPt, refPt
		} else {
			c.pa, c.pb = refPt, incPt
		}
		info.arr[info.count] = c
		info.count++
	}
	return info
}

// findMaxSeparation finds the face of hull a whose outward normal gives
// the largest separation from hull b.
func findMaxSeparation(a, b []Vec) (int, float64) {
	bestFace := 0
	bestSep := math.Inf(-1)
	for i := range a {
		n := polyFaceNormal(a, i)
		v1 := a[i]
		sep := math.Inf(1)
		for _, w := range b {
			if d := n.Dot(w.Sub(v1)); d < sep {
				sep = d
			}
		}
		if sep > bestSep {
			bestSep = sep
			bestFace = i
		}
	}
	return bestFace, bestSep
}

// polyFaceNormal returns the outward normal of face i of a
// counterclockwise world-space loop.
func polyFaceNormal(verts []Vec, i int) Vec {
	v1 := verts[i]
	v2 := verts[(i+1)%len(verts)]
	return v2.Sub(v1).Normalize().RPerp()
}

// clipSegment clips p1-p2 to the half-plane dot(n, p) >= d. Reports
// false when the segment lies entirely outside.
func clipSegment(p1, p2, n Vec, d float64) (Vec, Vec, bool) {
	d1 := n.Dot(p1) - d
	d2 := n.Dot(p2) - d
	if d1 < 0 && d2 < 0 {
		return p1, p2, false
	}
	if d1 < 0 {
		p1 = p1.Lerp(p2, d1/(d1-d2))
	} else if d2 < 0 {
		p2 = p1.Lerp(p2, d1/(d1-d2))
	}
	return p1, p2, true
}

// closestPointOnSegment returns the point on segment ab closest to p.
func closestPointOnSegment(p, a, b Vec) Vec {
	delta := b.Sub(a)
	lsq := delta.LengthSq()
	if lsq == 0 {
		return a
	}
	t := clamp(p.Sub(a).Dot(delta)/lsq, 0, 1)
	return a.Add(delta.Mult(t))
}
