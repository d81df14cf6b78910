package kernel

import "math"

// Vec is a 2D vector. All operations are value-based and allocation free.
type Vec struct {
	X, Y float64
}

// ForAngle returns the unit vector pointing at angle a radians.
func ForAngle(a float64) Vec {
	return Vec{math.Cos(a), math.Sin(a)}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

func (v Vec) Neg() Vec {
	return Vec{-v.X, -v.Y}
}

func (v Vec) Mult(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product, a signed area.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Perp returns v rotated 90 degrees counterclockwise.
func (v Vec) Perp() Vec {
	return Vec{-v.Y, v.X}
}

// RPerp returns v rotated 90 degrees clockwise.
func (v Vec) RPerp() Vec {
	return Vec{v.Y, -v.X}
}

// Project returns the projection of v onto o.
func (v Vec) Project(o Vec) Vec {
	return o.Mult(v.Dot(o) / o.Dot(o))
}

// ToAngle returns the angle of v in radians.
func (v Vec) ToAngle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate treats rot as a unit rotation vector and rotates v by it.
func (v Vec) Rotate(rot Vec) Vec {
	return Vec{v.X*rot.X - v.Y*rot.Y, v.X*rot.Y + v.Y*rot.X}
}

// Unrotate is the inverse of Rotate.
func (v Vec) Unrotate(rot Vec) Vec {
	return Vec{v.X*rot.X + v.Y*rot.Y, -v.X*rot.Y + v.Y*rot.X}
}

func (v Vec) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vec) Lerp(o Vec, t float64) Vec {
	return v.Mult(1 - t).Add(o.Mult(t))
}

// LerpConst moves from v toward o by at most distance d.
func (v Vec) LerpConst(o Vec, d float64) Vec {
	return v.Add(o.Sub(v).Clamp(d))
}

// Slerp interpolates between v and o along the unit circle.
func (v Vec) Slerp(o Vec, t float64) Vec {
	dot := v.Normalize().Dot(o.Normalize())
	omega := math.Acos(clamp(dot, -1, 1))
	if omega < 1e-3 {
		return v.Lerp(o, t)
	}
	denom := 1 / math.Sin(omega)
	return v.Mult(math.Sin((1-t)*omega) * denom).Add(o.Mult(math.Sin(t*omega) * denom))
}

// SlerpConst rotates v toward o by at most angle a radians.
func (v Vec) SlerpConst(o Vec, a float64) Vec {
	dot := v.Normalize().Dot(o.Normalize())
	omega := math.Acos(clamp(dot, -1, 1))
	if omega == 0 {
		return v
	}
	return v.Slerp(o, math.Min(a, omega)/omega)
}

// Normalize returns a unit vector in the direction of v. The zero vector
// normalizes to zero rather than NaN.
func (v Vec) Normalize() Vec {
	// The epsilon keeps 1/length finite for the zero vector.
	return v.Mult(1 / (v.Length() + 1e-50))
}

// Clamp limits the length of v to at most length.
func (v Vec) Clamp(length float64) Vec {
	if v.Dot(v) > length*length {
		return v.Normalize().Mult(length)
	}
	return v
}

func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Length()
}

func (v Vec) DistSq(o Vec) float64 {
	return v.Sub(o).LengthSq()
}

// Near reports whether v is within distance d of o.
func (v Vec) Near(o Vec, d float64) bool {
	return v.DistSq(o) < d*d
}

func (v Vec) Equal(o Vec) bool {
	return v.X == o.X && v.Y == o.Y
}

func clamp(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
