package rigid2d

import "github.com/san-kum/rigid2d/internal/kernel"

// Vect is a 2D vector. It is used for positions, velocities, forces and
// local offsets alike.
type Vect = kernel.Vec

// V is shorthand for Vect{X: x, Y: y}.
func V(x, y float64) Vect { return Vect{X: x, Y: y} }

// ForAngle returns the unit vector pointing at a radians.
func ForAngle(a float64) Vect { return kernel.ForAngle(a) }
