// Package rigid2d is a safe shared-ownership facade over a 2D rigid body
// physics engine.
//
// Simulation state lives in an internal kernel that knows nothing about
// ownership or concurrency. This package wraps every kernel entity in a
// reference-counted, lock-guarded handle so that independently owned
// parts of a program can share bodies and shapes without coordinating
// destruction.
//
// # Entities
//
// A [Body] is a rigid body: dynamic, kinematic or static. Bodies are
// created with [NewBody], [NewKinematicBody] or [NewStaticBody] and
// accessed through a [BodyHandle].
//
// A [Shape] attaches collision geometry to a body: a circle, a thickened
// line segment, or a convex polygon. A shape holds only a weak reference
// to its owner, so a shape never keeps its body alive; operations that
// need the body, such as density changes that recompute the owner's
// mass, report [ErrBodyGone] once the body is destroyed.
//
// A [Space] steps bodies and shapes through time and holds strong
// references to its members for as long as they stay added.
//
// # Handles
//
// [handle.Handle] values own one strong reference each. Clone a handle
// to share the entity, release every handle exactly once, and read or
// write the payload inside closure-scoped views:
//
//	ball := rigid2d.NewBody(10, 0)
//	defer ball.Release()
//	ball.Write(func(b *rigid2d.Body) {
//		b.SetPosition(rigid2d.V(0, 20))
//	})
//
// The entity is destroyed when the last strong reference is released.
//
// # Collisions
//
// A [CollisionHandler] installed with [Space.SetCollisionHandler]
// receives an [Arbiter] for each colliding pair. The arbiter is valid
// only inside the callback; it exposes the contact points and lets the
// callback override friction, restitution and surface velocity for the
// current step.
package rigid2d
