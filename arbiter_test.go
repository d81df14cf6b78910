package rigid2d

import (
	"errors"
	"math"
	"testing"
)

// restingScene builds a space with a ball resting just above a floor so
// a collision fires on the first step. The caller owns the space.
func restingScene(t *testing.T, ballElasticity, ballFriction, floorElasticity, floorFriction float64) *Space {
	t.Helper()
	s := NewSpace()
	s.SetGravity(V(0, -100))

	floorBody, floorShape := staticFloor(t)
	floorShape.Write(func(sh *Shape) {
		if err := sh.SetElasticity(floorElasticity); err != nil {
			t.Fatalf("SetElasticity failed: %v", err)
		}
		if err := sh.SetFriction(floorFriction); err != nil {
			t.Fatalf("SetFriction failed: %v", err)
		}
	})

	ball, ballShape := dynamicBall(t, V(0, 0.95))
	ballShape.Write(func(sh *Shape) {
		if err := sh.SetElasticity(ballElasticity); err != nil {
			t.Fatalf("SetElasticity failed: %v", err)
		}
		if err := sh.SetFriction(ballFriction); err != nil {
			t.Fatalf("SetFriction failed: %v", err)
		}
	})

	for _, err := range []error{
		s.AddBody(floorBody), s.AddShape(floorShape),
		s.AddBody(ball), s.AddShape(ballShape),
	} {
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	floorBody.Release()
	floorShape.Release()
	ball.Release()
	ballShape.Release()
	return s
}

func TestArbiterContactAccessors(t *testing.T) {
	s := restingScene(t, 0, 0, 0, 0)
	defer s.Close()

	seen := false
	s.SetCollisionHandler(&CollisionHandler{
		PreSolve: func(a *Arbiter) bool {
			seen = true
			if a.Count() < 1 || a.Count() > 2 {
				t.Errorf("expected 1 or 2 contacts, got %d", a.Count())
			}
			n := a.Normal()
			if math.Abs(n.Length()-1) > 1e-9 {
				t.Errorf("expected unit normal, got %v", n)
			}

			pa, err := a.PointA(0)
			if err != nil {
				t.Fatalf("PointA failed: %v", err)
			}
			pb, err := a.PointB(0)
			if err != nil {
				t.Fatalf("PointB failed: %v", err)
			}
			if pa.Dist(pb) > 0.2 {
				t.Errorf("contact points should straddle the overlap, got %v and %v", pa, pb)
			}
			if _, err := a.Depth(0); err != nil {
				t.Errorf("Depth failed: %v", err)
			}

			if _, err := a.PointA(a.Count()); !errors.Is(err, ErrContactRange) {
				t.Errorf("expected ErrContactRange, got %v", err)
			}
			if _, err := a.PointB(-1); !errors.Is(err, ErrContactRange) {
				t.Errorf("expected ErrContactRange, got %v", err)
			}
			if _, err := a.Depth(2); !errors.Is(err, ErrContactRange) {
				t.Errorf("expected ErrContactRange, got %v", err)
			}

			set := a.ContactPoints()
			if set.Count != a.Count() {
				t.Errorf("snapshot count %d does not match %d", set.Count, a.Count())
			}
			if set.Normal != n {
				t.Errorf("snapshot normal %v does not match %v", set.Normal, n)
			}
			if set.Points[0].PointA != pa {
				t.Errorf("snapshot point %v does not match %v", set.Points[0].PointA, pa)
			}
			return true
		},
	})

	for i := 0; i < 30 && !seen; i++ {
		s.Step(1.0 / 60)
	}
	if !seen {
		t.Fatal("expected a collision")
	}
}

func TestArbiterCombinesPairProperties(t *testing.T) {
	// Friction combines as the geometric mean, elasticity as the maximum.
	s := restingScene(t, 0.5, 0.9, 0.2, 0.4)
	defer s.Close()

	checked := false
	s.SetCollisionHandler(&CollisionHandler{
		PreSolve: func(a *Arbiter) bool {
			checked = true
			if got, want := a.Friction(), 0.6; math.Abs(got-want) > 1e-9 {
				t.Errorf("expected combined friction %v, got %v", want, got)
			}
			if got, want := a.Elasticity(), 0.5; math.Abs(got-want) > 1e-9 {
				t.Errorf("expected combined elasticity %v, got %v", want, got)
			}
			return true
		},
	})

	for i := 0; i < 30 && !checked; i++ {
		s.Step(1.0 / 60)
	}
	if !checked {
		t.Fatal("expected a collision")
	}
}

func TestArbiterOverrideLastsOneStep(t *testing.T) {
	s := restingScene(t, 0, 0.9, 0, 0.4)
	defer s.Close()

	var frictions []float64
	s.SetCollisionHandler(&CollisionHandler{
		PreSolve: func(a *Arbiter) bool {
			frictions = append(frictions, a.Friction())
			if err := a.SetFriction(0); err != nil {
				t.Fatalf("SetFriction failed: %v", err)
			}
			return true
		},
	})

	for i := 0; i < 120 && len(frictions) < 3; i++ {
		s.Step(1.0 / 60)
	}
	if len(frictions) < 3 {
		t.Fatal("expected repeated contact")
	}
	// Every step recombines from the shapes, so the zero written last
	// step is gone again.
	for i, u := range frictions {
		if math.Abs(u-0.6) > 1e-9 {
			t.Errorf("step %d: expected recombined friction 0.6, got %v", i, u)
		}
	}
}

func TestArbiterSetterValidation(t *testing.T) {
	s := restingScene(t, 0, 0, 0, 0)
	defer s.Close()

	checked := false
	s.SetCollisionHandler(&CollisionHandler{
		PreSolve: func(a *Arbiter) bool {
			checked = true
			if err := a.SetFriction(-1); !errors.Is(err, ErrNegativeFriction) {
				t.Errorf("expected ErrNegativeFriction, got %v", err)
			}
			if err := a.SetElasticity(-0.5); !errors.Is(err, ErrNegativeElasticity) {
				t.Errorf("expected ErrNegativeElasticity, got %v", err)
			}
			if a.Friction() != 0 || a.Elasticity() != 0 {
				t.Errorf("rejected writes must leave pair properties unchanged, got u=%v e=%v",
					a.Friction(), a.Elasticity())
			}
			a.SetSurfaceVelocity(V(3, 0))
			if got := a.SurfaceVelocity(); got != V(3, 0) {
				t.Errorf("expected surface velocity override (3,0), got %v", got)
			}
			return true
		},
	})

	for i := 0; i < 30 && !checked; i++ {
		s.Step(1.0 / 60)
	}
	if !checked {
		t.Fatal("expected a collision")
	}
}

func TestArbiterFirstContactAndEnergy(t *testing.T) {
	s := restingScene(t, 0, 0, 0, 0)
	defer s.Close()

	var first []bool
	s.SetCollisionHandler(&CollisionHandler{
		Begin: func(a *Arbiter) bool {
			if !a.IsFirstContact() {
				t.Error("Begin must see the first contact")
			}
			if a.TotalKineticEnergy() < 0 {
				t.Errorf("expected non-negative kinetic energy, got %v", a.TotalKineticEnergy())
			}
			return true
		},
		PreSolve: func(a *Arbiter) bool {
			first = append(first, a.IsFirstContact())
			return true
		},
	})

	for i := 0; i < 60 && len(first) < 3; i++ {
		s.Step(1.0 / 60)
	}
	if len(first) < 3 {
		t.Fatal("expected sustained contact")
	}
	if !first[0] {
		t.Error("first PreSolve should report a first contact")
	}
	if first[1] || first[2] {
		t.Error("later steps must not report a first contact")
	}
}
