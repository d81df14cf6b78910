package kernel

import "errors"

// Errors surfaced across the kernel boundary.
var (
	// ErrAlreadyAdded indicates an add of an object that is already
	// registered with a space.
	ErrAlreadyAdded = errors.New("kernel: object already added to a space")

	// ErrNotAdded indicates a removal of an object the space does not
	// contain.
	ErrNotAdded = errors.New("kernel: object not present in space")

	// ErrNoBody indicates an operation on a shape whose body has been
	// destroyed.
	ErrNoBody = errors.New("kernel: shape has no attached body")

	// ErrBadPoly indicates polygon vertices that do not form a convex
	// counterclockwise loop.
	ErrBadPoly = errors.New("kernel: vertices must form a convex counterclockwise loop")

	// ErrSpaceLocked indicates a membership mutation attempted while the
	// space is stepping.
	ErrSpaceLocked = errors.New("kernel: space is locked during step")
)
