package rigid2d

import (
	"errors"

	"github.com/san-kum/rigid2d/internal/kernel"
)

// Errors reported by the facade itself.
var (
	// ErrNegativeFriction rejects a negative friction coefficient. The
	// stored value is left unchanged.
	ErrNegativeFriction = errors.New("rigid2d: friction must not be negative")

	// ErrNegativeElasticity rejects a negative elasticity coefficient.
	// The stored value is left unchanged.
	ErrNegativeElasticity = errors.New("rigid2d: elasticity must not be negative")

	// ErrBodyGone is reported by shape operations that need the owning
	// body after every strong reference to it has been released.
	ErrBodyGone = errors.New("rigid2d: owning body has been destroyed")

	// ErrVertexRange is reported by [Poly.Vert] for an out-of-range index.
	ErrVertexRange = errors.New("rigid2d: vertex index out of range")

	// ErrContactRange is reported by arbiter point accessors for an
	// out-of-range contact index.
	ErrContactRange = errors.New("rigid2d: contact index out of range")

	// ErrSpaceClosed is reported by operations on a closed space.
	ErrSpaceClosed = errors.New("rigid2d: space is closed")
)

// Kernel verdicts surfaced unchanged through the space API.
var (
	// ErrAlreadyInSpace rejects adding an entity that is already a member
	// of a space.
	ErrAlreadyInSpace = kernel.ErrAlreadyAdded

	// ErrNotInSpace is reported when removing an entity the space does
	// not contain.
	ErrNotInSpace = kernel.ErrNotAdded

	// ErrShapeDetached rejects adding a shape whose body is gone.
	ErrShapeDetached = kernel.ErrNoBody

	// ErrBadPolygon rejects polygon vertices that do not form a convex
	// counterclockwise loop.
	ErrBadPolygon = kernel.ErrBadPoly

	// ErrSpaceLocked is reported by membership calls made from collision
	// callbacks while the space is stepping.
	ErrSpaceLocked = kernel.ErrSpaceLocked
)
