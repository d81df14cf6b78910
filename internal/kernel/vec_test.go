package kernel

import (
	"math"
	"testing"
)

func vecNear(t *testing.T, got, want Vec, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol {
		t.Errorf("expected (%g, %g), got (%g, %g)", want.X, want.Y, got.X, got.Y)
	}
}

func TestVecArithmetic(t *testing.T) {
	a := Vec{3, 4}
	b := Vec{-1, 2}

	vecNear(t, a.Add(b), Vec{2, 6}, 0)
	vecNear(t, a.Sub(b), Vec{4, 2}, 0)
	vecNear(t, a.Neg(), Vec{-3, -4}, 0)
	vecNear(t, a.Mult(2), Vec{6, 8}, 0)

	if got := a.Dot(b); got != 5 {
		t.Errorf("expected dot 5, got %g", got)
	}
	if got := a.Cross(b); got != 10 {
		t.Errorf("expected cross 10, got %g", got)
	}
}

func TestVecPerp(t *testing.T) {
	v := Vec{1, 2}
	vecNear(t, v.Perp(), Vec{-2, 1}, 0)
	vecNear(t, v.RPerp(), Vec{2, -1}, 0)

	if got := v.Dot(v.Perp()); got != 0 {
		t.Errorf("perp not perpendicular: dot = %g", got)
	}
	if got := v.Cross(v.Perp()); got <= 0 {
		t.Errorf("perp should be counterclockwise: cross = %g", got)
	}
}

func TestVecRotate(t *testing.T) {
	rot := ForAngle(math.Pi / 2)
	vecNear(t, Vec{1, 0}.Rotate(rot), Vec{0, 1}, 1e-12)
	vecNear(t, Vec{0, 1}.Rotate(rot), Vec{-1, 0}, 1e-12)

	v := Vec{3, -2}
	vecNear(t, v.Rotate(rot).Unrotate(rot), v, 1e-12)
}

func TestVecNormalize(t *testing.T) {
	vecNear(t, Vec{3, 4}.Normalize(), Vec{0.6, 0.8}, 1e-12)
	vecNear(t, Vec{}.Normalize(), Vec{}, 0)
}

func TestVecClamp(t *testing.T) {
	vecNear(t, Vec{3, 4}.Clamp(1), Vec{0.6, 0.8}, 1e-12)
	vecNear(t, Vec{0.3, 0.4}.Clamp(1), Vec{0.3, 0.4}, 0)
}

func TestVecMisc(t *testing.T) {
	if got := (Vec{1, 1}).Dist(Vec{4, 5}); got != 5 {
		t.Errorf("expected dist 5, got %g", got)
	}
	vecNear(t, Vec{2, 3}.Project(Vec{1, 0}), Vec{2, 0}, 0)
	if got := (Vec{0, 2}).ToAngle(); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("expected angle pi/2, got %g", got)
	}
	vecNear(t, Vec{0, 0}.Lerp(Vec{10, -4}, 0.5), Vec{5, -2}, 0)

	if !(Vec{1, 2}).Near(Vec{1.05, 2}, 0.1) {
		t.Error("expected points to be near")
	}
	if (Vec{1, 2}).Near(Vec{2, 2}, 0.1) {
		t.Error("expected points not to be near")
	}
}
