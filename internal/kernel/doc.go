// Package kernel implements the 2D rigid body engine behind the rigid2d
// façade.
//
// The package owns numerical integration, broad and narrow phase collision
// detection, and the impulse solver:
//
//   - [Body]: rigid body state (dynamic, kinematic or static)
//   - [Shape]: collision geometry (circle, segment, polygon) bound to a body
//   - [Space]: the simulation context that steps bodies and resolves contacts
//   - [Arbiter]: the per-pair contact record handed to collision handlers
//
// Kernel objects are raw resources: they carry no locking and no reference
// counting of their own. The façade layer above serializes all access and
// calls Destroy exactly once per object; destroying an object twice is a
// programming error and panics. A live-object table backs that guarantee
// and provides the identity used for space membership.
//
// # Stepping
//
// [Space.Step] advances the world: velocities are integrated under gravity
// and damping, the spatial hash proposes candidate pairs, the narrow phase
// produces contact manifolds, cached arbiters fire the registered handler
// hooks, and an iterative impulse solver resolves the contacts before
// positions advance. Step must only be called from one goroutine per Space.
package kernel
