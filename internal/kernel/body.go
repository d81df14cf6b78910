package kernel

import "math"

// BodyType selects how a body participates in the simulation.
type BodyType int

const (
	// BodyDynamic bodies are moved by forces, gravity and collisions.
	BodyDynamic BodyType = iota
	// BodyKinematic bodies have infinite mass and move only by the
	// velocity assigned to them.
	BodyKinematic
	// BodyStatic bodies never move. Moving one manually requires a
	// reindex of its shapes.
	BodyStatic
)

// Body is a rigid body. It carries no locking: the layer above serializes
// all access, and Step mutates bodies only from the stepping goroutine.
type Body struct {
	id   uint64
	btyp BodyType

	m    float64 // mass
	mInv float64
	i    float64 // moment of inertia about the center of gravity
	iInv float64
	cog  Vec // center of gravity, body-local

	p   Vec // world position of the body origin
	v   Vec
	f   Vec
	a   float64 // angle, radians
	rot Vec     // cached unit rotation vector for a
	w   float64 // angular velocity, radians per second
	t   float64 // torque

	// Positional correction pseudo-velocities, consumed and reset by the
	// position update each step.
	vBias Vec
	wBias float64

	idleTime float64
	sleeping bool

	space  *Space
	shapes []*Shape
}

// NewBody creates a dynamic body. A zero mass or moment leaves the
// corresponding inverse at zero, so the body ignores that degree of
// freedom until a real value is set (directly or through a shape's mass).
func NewBody(mass, moment float64) *Body {
	b := &Body{btyp: BodyDynamic, rot: Vec{1, 0}}
	b.SetMass(mass)
	b.SetMoment(moment)
	b.id = register(b)
	return b
}

// NewKinematicBody creates a body with infinite mass and moment that is
// driven only by its velocity.
func NewKinematicBody() *Body {
	b := &Body{btyp: BodyKinematic, rot: Vec{1, 0}}
	b.m = math.Inf(1)
	b.i = math.Inf(1)
	b.id = register(b)
	return b
}

// NewStaticBody creates a body that never moves.
func NewStaticBody() *Body {
	b := &Body{btyp: BodyStatic, rot: Vec{1, 0}}
	b.m = math.Inf(1)
	b.i = math.Inf(1)
	b.id = register(b)
	return b
}

// Destroy releases the body. Its shapes are detached and report a missing
// body from then on. Destroying a body twice, or while it is still added
// to a space, panics.
func (b *Body) Destroy() {
	if b.space != nil {
		panic("kernel: destroy of body still in a space")
	}
	for _, s := range b.shapes {
		if s.space != nil {
			panic("kernel: destroy of body whose shape is still in a space")
		}
	}
	unregister(b.id, "body")
	for _, s := range b.shapes {
		s.body = nil
	}
	b.shapes = nil
}

// ID returns the body's unique kernel identity.
func (b *Body) ID() uint64 { return b.id }

// Type returns the body's participation mode.
func (b *Body) Type() BodyType { return b.btyp }

func (b *Body) Position() Vec { return b.p }

// SetPosition moves the body and wakes it. Static bodies additionally
// need a reindex before the move is visible to collision detection.
func (b *Body) SetPosition(p Vec) {
	b.p = p
	b.Activate()
}

func (b *Body) Velocity() Vec { return b.v }

func (b *Body) SetVelocity(v Vec) {
	b.v = v
	b.Activate()
}

func (b *Body) Angle() float64 { return b.a }

func (b *Body) SetAngle(a float64) {
	b.setAngle(a)
	b.Activate()
}

func (b *Body) setAngle(a float64) {
	b.a = a
	b.rot = ForAngle(a)
}

// Rotation returns the body's unit rotation vector (cos a, sin a).
func (b *Body) Rotation() Vec { return b.rot }

func (b *Body) AngularVelocity() float64 { return b.w }

func (b *Body) SetAngularVelocity(w float64) {
	b.w = w
	b.Activate()
}

func (b *Body) Force() Vec { return b.f }

func (b *Body) SetForce(f Vec) {
	b.f = f
	b.Activate()
}

func (b *Body) Torque() float64 { return b.t }

func (b *Body) SetTorque(t float64) {
	b.t = t
	b.Activate()
}

func (b *Body) Mass() float64 { return b.m }

// SetMass assigns the mass directly. It does not recompute anything from
// the body's shapes; shape-driven recomputation happens when a shape's
// mass or density is set. Ignored for non-dynamic bodies.
func (b *Body) SetMass(m float64) {
	if b.btyp != BodyDynamic {
		return
	}
	b.m = m
	b.mInv = safeInv(m)
}

func (b *Body) Moment() float64 { return b.i }

// SetMoment assigns the moment of inertia directly. A zero moment locks
// the rotational degree of freedom.
func (b *Body) SetMoment(i float64) {
	if b.btyp != BodyDynamic {
		return
	}
	b.i = i
	b.iInv = safeInv(i)
}

func (b *Body) CenterOfGravity() Vec { return b.cog }

func (b *Body) SetCenterOfGravity(cog Vec) {
	b.cog = cog
}

// Activate wakes the body and clears its idle timer.
func (b *Body) Activate() {
	b.sleeping = false
	b.idleTime = 0
}

// Sleep puts a dynamic body to sleep, zeroing its motion.
func (b *Body) Sleep() {
	if b.btyp != BodyDynamic {
		return
	}
	b.sleeping = true
	b.v = Vec{}
	b.w = 0
}

func (b *Body) IsSleeping() bool { return b.sleeping }

// KineticEnergy returns m*|v|^2 + i*w^2, the engine's activity measure.
func (b *Body) KineticEnergy() float64 {
	var ke float64
	if vsq := b.v.Dot(b.v); vsq != 0 {
		ke += vsq * b.m
	}
	if wsq := b.w * b.w; wsq != 0 {
		ke += wsq * b.i
	}
	return ke
}

// LocalToWorld converts a body-local point to world coordinates.
func (b *Body) LocalToWorld(p Vec) Vec {
	return b.p.Add(p.Rotate(b.rot))
}

// WorldToLocal converts a world point to body-local coordinates.
func (b *Body) WorldToLocal(p Vec) Vec {
	return p.Sub(b.p).Unrotate(b.rot)
}

func (b *Body) worldCOG() Vec {
	return b.LocalToWorld(b.cog)
}

// VelocityAtWorldPoint returns the velocity of the body at a world point,
// combining linear and angular motion.
func (b *Body) VelocityAtWorldPoint(p Vec) Vec {
	r := p.Sub(b.worldCOG())
	return b.v.Add(r.Perp().Mult(b.w))
}

// VelocityAtLocalPoint returns the velocity of the body at a body-local
// point.
func (b *Body) VelocityAtLocalPoint(p Vec) Vec {
	return b.VelocityAtWorldPoint(b.LocalToWorld(p))
}

// ApplyForceAtWorldPoint accumulates force and the torque it induces
// about the center of gravity.
func (b *Body) ApplyForceAtWorldPoint(force, point Vec) {
	b.Activate()
	b.f = b.f.Add(force)
	b.t += point.Sub(b.worldCOG()).Cross(force)
}

// ApplyForceAtLocalPoint applies a body-local force at a body-local point.
func (b *Body) ApplyForceAtLocalPoint(force, point Vec) {
	b.ApplyForceAtWorldPoint(force.Rotate(b.rot), b.LocalToWorld(point))
}

// ApplyImpulseAtWorldPoint changes the body's momentum immediately.
func (b *Body) ApplyImpulseAtWorldPoint(impulse, point Vec) {
	b.Activate()
	b.v = b.v.Add(impulse.Mult(b.mInv))
	b.w += b.iInv * point.Sub(b.worldCOG()).Cross(impulse)
}

// ApplyImpulseAtLocalPoint applies a body-local impulse at a body-local
// point.
func (b *Body) ApplyImpulseAtLocalPoint(impulse, point Vec) {
	b.ApplyImpulseAtWorldPoint(impulse.Rotate(b.rot), b.LocalToWorld(point))
}

// updateVelocity integrates gravity, forces and damping over dt. Damping
// is the per-step retention factor computed by the space.
func (b *Body) updateVelocity(gravity Vec, damping, dt float64) {
	if b.btyp != BodyDynamic {
		return
	}
	b.v = b.v.Mult(damping)
	b.w *= damping
	if b.mInv > 0 {
		b.v = b.v.Add(gravity.Add(b.f.Mult(b.mInv)).Mult(dt))
	}
	if b.iInv > 0 {
		b.w += b.t * b.iInv * dt
	}
	b.f = Vec{}
	b.t = 0
}

// updatePosition advances the body by its velocity plus the solver's
// correction pseudo-velocities, which are consumed here.
func (b *Body) updatePosition(dt float64) {
	b.p = b.p.Add(b.v.Add(b.vBias).Mult(dt))
	b.setAngle(b.a + (b.w+b.wBias)*dt)
	b.vBias = Vec{}
	b.wBias = 0
}

// accumulateMassFromShapes recomputes mass, center of gravity and moment
// from the attached shapes' mass contributions (parallel axis theorem for
// the moments). Called when a shape's mass or density changes.
func (b *Body) accumulateMassFromShapes() {
	if b == nil || b.btyp != BodyDynamic {
		return
	}

	var m float64
	var cog Vec
	for _, s := range b.shapes {
		if mi := s.massInfo(); mi.m > 0 {
			m += mi.m
			cog = cog.Add(mi.cog.Mult(mi.m))
		}
	}
	if m > 0 {
		cog = cog.Mult(1 / m)
	}

	var i float64
	for _, s := range b.shapes {
		if mi := s.massInfo(); mi.m > 0 {
			i += mi.m*mi.i + mi.m*mi.cog.DistSq(cog)
		}
	}

	b.m = m
	b.mInv = safeInv(m)
	b.cog = cog
	b.i = i
	b.iInv = safeInv(i)
}
