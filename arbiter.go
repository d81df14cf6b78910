package rigid2d

import "github.com/san-kum/rigid2d/internal/kernel"

// Arbiter is a transient view over one colliding shape pair, handed to
// [CollisionHandler] callbacks during [Space.Step]. The underlying
// record is recycled by the stepping machinery, so an arbiter must never
// be retained past the callback that delivered it.
//
// Friction, restitution and surface velocity are recombined from the two
// shapes at the start of every step, so a value written here overrides
// the default combination for this pair during this step only.
type Arbiter struct {
	ref *kernel.Arbiter
}

// ContactPoint is one point of contact between two shapes.
type ContactPoint struct {
	// PointA and PointB are the world-space points on either shape's
	// surface. They coincide when the shapes merely touch and straddle
	// the overlap when they penetrate.
	PointA, PointB Vect

	// Depth is how far the shapes overlap at this point. Positive means
	// penetrating.
	Depth float64
}

// ContactPointSet is a plain-value snapshot of an arbiter's contacts,
// safe to keep after the callback returns.
type ContactPointSet struct {
	Count  int
	Normal Vect
	Points [2]ContactPoint
}

// CollisionHandler receives contact events during [Space.Step]. Begin
// fires once when a pair starts touching; returning false ignores the
// pair until it separates. PreSolve fires every step before solving;
// returning false skips solving for that step only. PostSolve fires
// after impulses are applied, Separate when the pair stops touching.
// Nil funcs are skipped.
//
// Membership calls on the space from inside a callback fail with
// [ErrSpaceLocked]; collect the change and apply it after the step.
type CollisionHandler struct {
	Begin     func(*Arbiter) bool
	PreSolve  func(*Arbiter) bool
	PostSolve func(*Arbiter)
	Separate  func(*Arbiter)
}

// Count returns the number of contact points, at most two.
func (a *Arbiter) Count() int { return a.ref.Count() }

// Normal returns the collision normal, pointing from the first shape of
// the pair toward the second.
func (a *Arbiter) Normal() Vect { return a.ref.Normal() }

// PointA returns world contact point i on the first shape's surface, or
// [ErrContactRange] when i is out of range.
func (a *Arbiter) PointA(i int) (Vect, error) {
	if i < 0 || i >= a.ref.Count() {
		return Vect{}, ErrContactRange
	}
	return a.ref.PointA(i), nil
}

// PointB returns world contact point i on the second shape's surface, or
// [ErrContactRange] when i is out of range.
func (a *Arbiter) PointB(i int) (Vect, error) {
	if i < 0 || i >= a.ref.Count() {
		return Vect{}, ErrContactRange
	}
	return a.ref.PointB(i), nil
}

// Depth returns the penetration depth at contact point i, or
// [ErrContactRange] when i is out of range.
func (a *Arbiter) Depth(i int) (float64, error) {
	if i < 0 || i >= a.ref.Count() {
		return 0, ErrContactRange
	}
	return a.ref.Depth(i), nil
}

// ContactPoints snapshots the full contact set.
func (a *Arbiter) ContactPoints() ContactPointSet {
	set := ContactPointSet{
		Count:  a.ref.Count(),
		Normal: a.ref.Normal(),
	}
	for i := 0; i < set.Count; i++ {
		set.Points[i] = ContactPoint{
			PointA: a.ref.PointA(i),
			PointB: a.ref.PointB(i),
			Depth:  a.ref.Depth(i),
		}
	}
	return set
}

// IsFirstContact reports whether the pair began touching this step.
func (a *Arbiter) IsFirstContact() bool { return a.ref.IsFirstContact() }

// Friction returns the pair's combined friction, the geometric mean of
// the two shapes' coefficients unless overridden this step.
func (a *Arbiter) Friction() float64 { return a.ref.Friction() }

// SetFriction overrides the pair's friction for the current step.
// Negative values are rejected with [ErrNegativeFriction].
func (a *Arbiter) SetFriction(u float64) error {
	if u < 0 {
		return ErrNegativeFriction
	}
	a.ref.SetFriction(u)
	return nil
}

// Elasticity returns the pair's combined restitution, the maximum of the
// two shapes' coefficients unless overridden this step.
func (a *Arbiter) Elasticity() float64 { return a.ref.Restitution() }

// SetElasticity overrides the pair's restitution for the current step.
// Negative values are rejected with [ErrNegativeElasticity].
func (a *Arbiter) SetElasticity(e float64) error {
	if e < 0 {
		return ErrNegativeElasticity
	}
	a.ref.SetRestitution(e)
	return nil
}

// SurfaceVelocity returns the pair's relative surface velocity, which
// drives friction as if the surfaces were sliding.
func (a *Arbiter) SurfaceVelocity() Vect { return a.ref.SurfaceVelocity() }

// SetSurfaceVelocity overrides the pair's relative surface velocity for
// the current step.
func (a *Arbiter) SetSurfaceVelocity(v Vect) { a.ref.SetSurfaceVelocity(v) }

// TotalKineticEnergy returns the kinetic energy of both bodies in the
// pair, useful for impact-strength heuristics in PostSolve.
func (a *Arbiter) TotalKineticEnergy() float64 { return a.ref.TotalKE() }

// kernelHandler adapts a facade handler to the kernel's callback type.
func kernelHandler(h *CollisionHandler) *kernel.CollisionHandler {
	if h == nil {
		return nil
	}
	kh := &kernel.CollisionHandler{}
	if h.Begin != nil {
		kh.Begin = func(ka *kernel.Arbiter) bool { return h.Begin(&Arbiter{ref: ka}) }
	}
	if h.PreSolve != nil {
		kh.PreSolve = func(ka *kernel.Arbiter) bool { return h.PreSolve(&Arbiter{ref: ka}) }
	}
	if h.PostSolve != nil {
		kh.PostSolve = func(ka *kernel.Arbiter) { h.PostSolve(&Arbiter{ref: ka}) }
	}
	if h.Separate != nil {
		kh.Separate = func(ka *kernel.Arbiter) { h.Separate(&Arbiter{ref: ka}) }
	}
	return kh
}
