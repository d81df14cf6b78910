package rigid2d

import (
	"math"

	"github.com/san-kum/rigid2d/handle"
	"github.com/san-kum/rigid2d/internal/kernel"
)

// BodyType selects how a body participates in the simulation.
type BodyType = kernel.BodyType

const (
	// BodyDynamic bodies are moved by forces, gravity and collisions.
	BodyDynamic = kernel.BodyDynamic
	// BodyKinematic bodies have infinite mass and move only by the
	// velocity assigned to them.
	BodyKinematic = kernel.BodyKinematic
	// BodyStatic bodies never move on their own.
	BodyStatic = kernel.BodyStatic
)

// BodyHandle is a strong, reference-counted handle to a [Body]. The body
// is destroyed when the last strong handle is released.
type BodyHandle = handle.Handle[Body]

// WeakBodyHandle observes a body without keeping it alive.
type WeakBodyHandle = handle.Weak[Body]

// Body is the payload behind a [BodyHandle]. Its methods touch the
// kernel resource directly and are safe only inside a view obtained from
// the handle: getters under [handle.Handle.Read] or [handle.Handle.Write],
// setters under [handle.Handle.Write] only.
type Body struct {
	ref *kernel.Body
}

func destroyBody(b *Body) { b.ref.Destroy() }

// NewBody creates a dynamic body. A zero mass or moment leaves the
// corresponding degree of freedom locked until a real value is set,
// either directly or through an attached shape's mass.
func NewBody(mass, moment float64) *BodyHandle {
	return handle.New(Body{ref: kernel.NewBody(mass, moment)}, destroyBody)
}

// NewKinematicBody creates a body with infinite mass that is driven only
// by the velocity assigned to it.
func NewKinematicBody() *BodyHandle {
	return handle.New(Body{ref: kernel.NewKinematicBody()}, destroyBody)
}

// NewStaticBody creates a body that never moves. Moving one manually
// requires a spatial reindex of its shapes, see [Space.ReindexShapesForBody].
func NewStaticBody() *BodyHandle {
	return handle.New(Body{ref: kernel.NewStaticBody()}, destroyBody)
}

// Type returns the body's participation mode.
func (b *Body) Type() BodyType { return b.ref.Type() }

func (b *Body) Position() Vect     { return b.ref.Position() }
func (b *Body) SetPosition(p Vect) { b.ref.SetPosition(p) }

func (b *Body) Velocity() Vect     { return b.ref.Velocity() }
func (b *Body) SetVelocity(v Vect) { b.ref.SetVelocity(v) }

// Angle returns the body's rotation in radians.
func (b *Body) Angle() float64     { return b.ref.Angle() }
func (b *Body) SetAngle(a float64) { b.ref.SetAngle(a) }

// AngleDegrees returns the body's rotation in degrees.
func (b *Body) AngleDegrees() float64     { return b.ref.Angle() * 180 / math.Pi }
func (b *Body) SetAngleDegrees(d float64) { b.ref.SetAngle(d * math.Pi / 180) }

// Rotation returns the body's unit rotation vector (cos a, sin a).
func (b *Body) Rotation() Vect { return b.ref.Rotation() }

// AngularVelocity returns the body's spin in radians per second.
func (b *Body) AngularVelocity() float64     { return b.ref.AngularVelocity() }
func (b *Body) SetAngularVelocity(w float64) { b.ref.SetAngularVelocity(w) }

// AngularVelocityDegrees returns the body's spin in degrees per second.
func (b *Body) AngularVelocityDegrees() float64     { return b.ref.AngularVelocity() * 180 / math.Pi }
func (b *Body) SetAngularVelocityDegrees(d float64) { b.ref.SetAngularVelocity(d * math.Pi / 180) }

func (b *Body) Force() Vect     { return b.ref.Force() }
func (b *Body) SetForce(f Vect) { b.ref.SetForce(f) }

func (b *Body) Torque() float64     { return b.ref.Torque() }
func (b *Body) SetTorque(t float64) { b.ref.SetTorque(t) }

func (b *Body) Mass() float64 { return b.ref.Mass() }

// SetMass assigns the mass directly. It does not recompute anything from
// attached shapes; that recomputation runs when a shape's mass or density
// is set. Ignored for non-dynamic bodies.
func (b *Body) SetMass(m float64) { b.ref.SetMass(m) }

func (b *Body) Moment() float64 { return b.ref.Moment() }

// SetMoment assigns the moment of inertia directly. A zero moment locks
// the rotational degree of freedom.
func (b *Body) SetMoment(i float64) { b.ref.SetMoment(i) }

// CenterOfGravity returns the body-local center of gravity.
func (b *Body) CenterOfGravity() Vect       { return b.ref.CenterOfGravity() }
func (b *Body) SetCenterOfGravity(cog Vect) { b.ref.SetCenterOfGravity(cog) }

// Activate wakes the body and clears its idle timer.
func (b *Body) Activate() { b.ref.Activate() }

// Sleep puts a dynamic body to sleep, zeroing its motion.
func (b *Body) Sleep() { b.ref.Sleep() }

func (b *Body) IsSleeping() bool { return b.ref.IsSleeping() }

// KineticEnergy returns the body's activity measure, m*|v|^2 + i*w^2.
func (b *Body) KineticEnergy() float64 { return b.ref.KineticEnergy() }

// LocalToWorld converts a body-local point to world coordinates.
func (b *Body) LocalToWorld(p Vect) Vect { return b.ref.LocalToWorld(p) }

// WorldToLocal converts a world point to body-local coordinates.
func (b *Body) WorldToLocal(p Vect) Vect { return b.ref.WorldToLocal(p) }

// VelocityAtWorldPoint returns the velocity of the body at a world point,
// combining linear and angular motion.
func (b *Body) VelocityAtWorldPoint(p Vect) Vect { return b.ref.VelocityAtWorldPoint(p) }

// VelocityAtLocalPoint returns the velocity of the body at a body-local
// point.
func (b *Body) VelocityAtLocalPoint(p Vect) Vect { return b.ref.VelocityAtLocalPoint(p) }

// ApplyForceAtWorldPoint accumulates force and the torque it induces
// about the center of gravity.
func (b *Body) ApplyForceAtWorldPoint(force, point Vect) { b.ref.ApplyForceAtWorldPoint(force, point) }

// ApplyForceAtLocalPoint applies a body-local force at a body-local point.
func (b *Body) ApplyForceAtLocalPoint(force, point Vect) { b.ref.ApplyForceAtLocalPoint(force, point) }

// ApplyImpulseAtWorldPoint changes the body's momentum immediately.
func (b *Body) ApplyImpulseAtWorldPoint(impulse, point Vect) {
	b.ref.ApplyImpulseAtWorldPoint(impulse, point)
}

// ApplyImpulseAtLocalPoint applies a body-local impulse at a body-local
// point.
func (b *Body) ApplyImpulseAtLocalPoint(impulse, point Vect) {
	b.ref.ApplyImpulseAtLocalPoint(impulse, point)
}
