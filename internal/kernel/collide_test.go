package kernel

import (
	"math"
	"testing"
)

func TestCollideCircleCircle(t *testing.T) {
	b1 := NewBody(1, 1)
	b2 := NewBody(1, 1)
	s1 := NewCircle(b1, 1, Vec{})
	s2 := NewCircle(b2, 1, Vec{})
	b2.SetPosition(Vec{1.5, 0})

	info := collide(s1, s2)
	if info.count != 1 {
		t.Fatalf("expected 1 contact, got %d", info.count)
	}
	vecNear(t, info.n, Vec{1, 0}, 1e-12)
	if math.Abs(info.arr[0].dist+0.5) > 1e-12 {
		t.Errorf("expected dist -0.5, got %g", info.arr[0].dist)
	}
	vecNear(t, info.arr[0].pa, Vec{1, 0}, 1e-12)
	vecNear(t, info.arr[0].pb, Vec{0.5, 0}, 1e-12)
}

func TestCollideCircleCircleSeparated(t *testing.T) {
	b1 := NewBody(1, 1)
	b2 := NewBody(1, 1)
	s1 := NewCircle(b1, 1, Vec{})
	s2 := NewCircle(b2, 1, Vec{})
	b2.SetPosition(Vec{3, 0})

	if info := collide(s1, s2); info.count != 0 {
		t.Errorf("expected no contacts, got %d", info.count)
	}
}

func TestCollideCircleSegment(t *testing.T) {
	floorBody := NewStaticBody()
	floor := NewSegment(floorBody, Vec{-10, 0}, Vec{10, 0}, 0)
	ballBody := NewBody(1, 1)
	ballBody.SetPosition(Vec{0, 0.75})
	ball := NewCircle(ballBody, 1, Vec{})

	info := collide(ball, floor)
	if info.count != 1 {
		t.Fatalf("expected 1 contact, got %d", info.count)
	}
	vecNear(t, info.n, Vec{0, -1}, 1e-12)
	if math.Abs(info.arr[0].dist+0.25) > 1e-12 {
		t.Errorf("expected dist -0.25, got %g", info.arr[0].dist)
	}
	vecNear(t, info.arr[0].pa, Vec{0, -0.25}, 1e-12)
	vecNear(t, info.arr[0].pb, Vec{0, 0}, 1e-12)

	// Swapped argument order flips the normal and the point roles.
	flipped := collide(floor, ball)
	if flipped.count != 1 {
		t.Fatalf("expected 1 contact, got %d", flipped.count)
	}
	vecNear(t, flipped.n, Vec{0, 1}, 1e-12)
	vecNear(t, flipped.arr[0].pa, Vec{0, 0}, 1e-12)
	vecNear(t, flipped.arr[0].pb, Vec{0, -0.25}, 1e-12)
}

func TestCollideBoxFloorTwoContacts(t *testing.T) {
	floorBody := NewStaticBody()
	floor := NewSegment(floorBody, Vec{-10, 0}, Vec{10, 0}, 0)

	boxBody := NewBody(1, 1)
	boxBody.SetPosition(Vec{0, 0.9})
	box, err := NewBox(boxBody, 2, 2, 0)
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	info := collide(floor, box)
	if info.count != 2 {
		t.Fatalf("expected 2 contacts, got %d", info.count)
	}
	vecNear(t, info.n, Vec{0, 1}, 1e-12)
	for i := 0; i < info.count; i++ {
		if math.Abs(info.arr[i].dist+0.1) > 1e-9 {
			t.Errorf("contact %d: expected dist -0.1, got %g", i, info.arr[i].dist)
		}
		if math.Abs(info.arr[i].pa.Y) > 1e-9 {
			t.Errorf("contact %d: expected floor point at y=0, got %g", i, info.arr[i].pa.Y)
		}
		if math.Abs(info.arr[i].pb.Y+0.1) > 1e-9 {
			t.Errorf("contact %d: expected box point at y=-0.1, got %g", i, info.arr[i].pb.Y)
		}
	}
	// Contacts span the box width.
	if math.Abs(info.arr[0].pa.X-info.arr[1].pa.X) < 1.5 {
		t.Errorf("expected contacts spread apart, got x=%g and x=%g",
			info.arr[0].pa.X, info.arr[1].pa.X)
	}
}

func TestCollidePolyPoly(t *testing.T) {
	b1 := NewBody(1, 1)
	b2 := NewBody(1, 1)
	box1, err := NewBox(b1, 2, 2, 0)
	if err != nil {
		t.Fatalf("box1: %v", err)
	}
	box2, err := NewBox(b2, 2, 2, 0)
	if err != nil {
		t.Fatalf("box2: %v", err)
	}
	b2.SetPosition(Vec{1.5, 0})

	info := collide(box1, box2)
	if info.count != 2 {
		t.Fatalf("expected 2 contacts, got %d", info.count)
	}
	vecNear(t, info.n, Vec{1, 0}, 1e-12)
	for i := 0; i < info.count; i++ {
		if math.Abs(info.arr[i].dist+0.5) > 1e-9 {
			t.Errorf("contact %d: expected dist -0.5, got %g", i, info.arr[i].dist)
		}
	}
}

func TestCollideCirclePolySwapped(t *testing.T) {
	boxBody := NewBody(1, 1)
	box, err := NewBox(boxBody, 2, 2, 0)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	ballBody := NewBody(1, 1)
	ballBody.SetPosition(Vec{0, 1.5})
	ball := NewCircle(ballBody, 1, Vec{})

	info := collide(box, ball)
	if info.count != 1 {
		t.Fatalf("expected 1 contact, got %d", info.count)
	}
	vecNear(t, info.n, Vec{0, 1}, 1e-12)
	if math.Abs(info.arr[0].dist+0.5) > 1e-12 {
		t.Errorf("expected dist -0.5, got %g", info.arr[0].dist)
	}
	vecNear(t, info.arr[0].pa, Vec{0, 1}, 1e-12)
	vecNear(t, info.arr[0].pb, Vec{0, 0.5}, 1e-12)
}

func TestCollideCirclePolyCorner(t *testing.T) {
	boxBody := NewBody(1, 1)
	box, err := NewBox(boxBody, 2, 2, 0)
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	ballBody := NewBody(1, 1)
	ballBody.SetPosition(Vec{1.5, 1.5})
	ball := NewCircle(ballBody, 1, Vec{})

	info := collide(ball, box)
	if info.count != 1 {
		t.Fatalf("expected 1 contact, got %d", info.count)
	}
	wantDist := math.Sqrt(0.5) - 1
	if math.Abs(info.arr[0].dist-wantDist) > 1e-9 {
		t.Errorf("expected dist %g, got %g", wantDist, info.arr[0].dist)
	}
	inv := 1 / math.Sqrt(2)
	vecNear(t, info.n, Vec{-inv, -inv}, 1e-9)
	vecNear(t, info.arr[0].pb, Vec{1, 1}, 1e-9)
}

func TestCollideSegmentSegment(t *testing.T) {
	b1 := NewStaticBody()
	b2 := NewBody(1, 1)
	s1 := NewSegment(b1, Vec{-1, 0}, Vec{1, 0}, 0)
	s2 := NewSegment(b2, Vec{0, -1}, Vec{0, 1}, 0)

	if info := collide(s1, s2); info.count != 0 {
		t.Errorf("expected no segment-segment contacts, got %d", info.count)
	}
}
