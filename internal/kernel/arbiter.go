package kernel

import "math"

// contact is a single contact point between two shapes, plus the solver
// state derived from it each step.
type contact struct {
	pa, pb Vec     // world points on either shape's surface
	dist   float64 // signed separation, negative when penetrating

	// Set by preStep, consumed by the iteration loop.
	r1, r2       Vec
	nMass, tMass float64
	bounce, bias float64
	jnAcc, jtAcc float64
	jBias        float64
}

type arbiterState int

const (
	// The pair started touching this step.
	arbiterFirst arbiterState = iota
	// The pair was touching last step too.
	arbiterNormal
	// A begin callback returned false; skip until separation.
	arbiterIgnore
	// The pair separated but is retained for a few steps.
	arbiterCached
)

// Arbiter tracks one colliding shape pair. Arbiters are owned and
// recycled by the space; callbacks receive them as transient views that
// must not be retained after the callback returns.
type Arbiter struct {
	a, b *Shape

	contacts [2]contact
	count    int
	n        Vec // collision normal, from the first shape toward the second

	// Pair properties recombined from the shapes every step, so callback
	// overrides last exactly one step.
	e         float64
	u         float64
	surfaceVr Vec

	state arbiterState
	stamp uint64
}

// CollisionHandler receives contact events during [Space.Step]. Begin
// fires once when a pair starts touching; returning false ignores the
// pair until it separates. PreSolve fires every step before solving;
// returning false skips solving for that step only. PostSolve fires
// after impulses are applied, Separate when the pair stops touching.
// Nil funcs are skipped.
type CollisionHandler struct {
	Begin     func(*Arbiter) bool
	PreSolve  func(*Arbiter) bool
	PostSolve func(*Arbiter)
	Separate  func(*Arbiter)
}

// Shapes returns the pair in a stable order.
func (arb *Arbiter) Shapes() (*Shape, *Shape) { return arb.a, arb.b }

// Bodies returns the bodies owning the pair's shapes.
func (arb *Arbiter) Bodies() (*Body, *Body) { return arb.a.body, arb.b.body }

// Count returns the number of contact points, at most two.
func (arb *Arbiter) Count() int { return arb.count }

// Normal returns the collision normal, pointing from the first shape
// toward the second.
func (arb *Arbiter) Normal() Vec { return arb.n }

// PointA returns world contact point i on the first shape's surface.
func (arb *Arbiter) PointA(i int) Vec { return arb.contacts[i].pa }

// PointB returns world contact point i on the second shape's surface.
func (arb *Arbiter) PointB(i int) Vec { return arb.contacts[i].pb }

// Depth returns how far contact point i penetrates. Positive means
// overlapping.
func (arb *Arbiter) Depth(i int) float64 { return -arb.contacts[i].dist }

// IsFirstContact reports whether the pair began touching this step.
func (arb *Arbiter) IsFirstContact() bool { return arb.state == arbiterFirst }

func (arb *Arbiter) Restitution() float64     { return arb.e }
func (arb *Arbiter) SetRestitution(e float64) { arb.e = e }

func (arb *Arbiter) Friction() float64     { return arb.u }
func (arb *Arbiter) SetFriction(u float64) { arb.u = u }

// SurfaceVelocity returns the pair's relative surface velocity, used to
// drive friction as if the surfaces were sliding.
func (arb *Arbiter) SurfaceVelocity() Vec     { return arb.surfaceVr }
func (arb *Arbiter) SetSurfaceVelocity(v Vec) { arb.surfaceVr = v }

// TotalKE returns the kinetic energy of both bodies in the pair.
func (arb *Arbiter) TotalKE() float64 {
	return arb.a.body.KineticEnergy() + arb.b.body.KineticEnergy()
}

// update refreshes the arbiter from a fresh narrow-phase result. Pair
// properties are recombined from the shapes, discarding any override a
// callback made on a previous step: friction combines as the geometric
// mean, restitution as the maximum.
func (arb *Arbiter) update(info collideInfo) {
	arb.n = info.n
	arb.contacts = info.arr
	arb.count = info.count

	a, b := arb.a, arb.b
	arb.e = math.Max(a.e, b.e)
	arb.u = math.Sqrt(a.u * b.u)

	surfaceVr := b.surfaceV.Sub(a.surfaceV)
	arb.surfaceVr = surfaceVr.Sub(info.n.Mult(surfaceVr.Dot(info.n)))

	if arb.state == arbiterCached {
		arb.state = arbiterFirst
	}
}

// touchesBody reports whether either side of the pair is body.
func (arb *Arbiter) touchesBody(body *Body) bool {
	return arb.a.body == body || arb.b.body == body
}
