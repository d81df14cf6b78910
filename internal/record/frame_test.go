package record

import (
	"math"
	"testing"

	"github.com/san-kum/rigid2d"
)

func captureScene(t *testing.T) *rigid2d.Space {
	t.Helper()
	space := rigid2d.NewSpace()
	space.SetGravity(rigid2d.V(0, -100))

	ball := rigid2d.NewBody(2, rigid2d.MomentForCircle(2, 0, 1, rigid2d.V(0, 0)))
	ball.Write(func(b *rigid2d.Body) {
		b.SetPosition(rigid2d.V(1, 2))
		b.SetVelocity(rigid2d.V(3, 0))
	})
	if err := space.AddBody(ball); err != nil {
		t.Fatalf("add ball: %v", err)
	}
	circle := rigid2d.NewCircle(ball, 1, rigid2d.V(0.5, 0))
	if err := space.AddShape(circle); err != nil {
		t.Fatalf("add circle: %v", err)
	}
	circle.Release()
	ball.Release()

	floor := rigid2d.NewStaticBody()
	if err := space.AddBody(floor); err != nil {
		t.Fatalf("add floor: %v", err)
	}
	seg := rigid2d.NewSegment(floor, rigid2d.V(-5, 0), rigid2d.V(5, 0), 0.5)
	if err := space.AddShape(seg); err != nil {
		t.Fatalf("add segment: %v", err)
	}
	seg.Release()
	floor.Release()

	t.Cleanup(func() { space.Close() })
	return space
}

func TestCaptureFrame(t *testing.T) {
	space := captureScene(t)

	fr := Capture(space, 7, 0.25)
	if fr.Step != 7 || fr.Time != 0.25 {
		t.Errorf("expected step 7 at t 0.25, got %d at %v", fr.Step, fr.Time)
	}
	if len(fr.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(fr.Bodies))
	}

	ball := fr.Bodies[0]
	if ball.X != 1 || ball.Y != 2 {
		t.Errorf("expected ball at (1, 2), got (%v, %v)", ball.X, ball.Y)
	}
	if ball.VX != 3 || ball.VY != 0 {
		t.Errorf("expected ball velocity (3, 0), got (%v, %v)", ball.VX, ball.VY)
	}
	if got, want := fr.Energy, 2.0*9.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected energy %v, got %v", want, got)
	}

	if len(fr.Shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(fr.Shapes))
	}
	circle := fr.Shapes[0]
	if circle.Kind != "circle" || circle.Radius != 1 {
		t.Errorf("expected circle of radius 1, got %q radius %v", circle.Kind, circle.Radius)
	}
	if len(circle.Points) != 1 || circle.Points[0] != [2]float64{1.5, 2} {
		t.Errorf("expected circle center (1.5, 2), got %v", circle.Points)
	}
	seg := fr.Shapes[1]
	if seg.Kind != "segment" || seg.Radius != 0.5 {
		t.Errorf("expected segment of radius 0.5, got %q radius %v", seg.Kind, seg.Radius)
	}
	if len(seg.Points) != 2 || seg.Points[0] != [2]float64{-5, 0} || seg.Points[1] != [2]float64{5, 0} {
		t.Errorf("expected segment (-5,0)-(5,0), got %v", seg.Points)
	}
}

func TestCaptureSkipsInfiniteMassEnergy(t *testing.T) {
	space := rigid2d.NewSpace()
	defer space.Close()

	kin := rigid2d.NewKinematicBody()
	kin.Write(func(b *rigid2d.Body) { b.SetVelocity(rigid2d.V(5, 0)) })
	if err := space.AddBody(kin); err != nil {
		t.Fatalf("add body: %v", err)
	}
	kin.Release()

	fr := Capture(space, 0, 0)
	if fr.Energy != 0 {
		t.Errorf("expected zero energy for kinematic-only space, got %v", fr.Energy)
	}
}

func TestCapturePolyWorldBounds(t *testing.T) {
	space := rigid2d.NewSpace()
	defer space.Close()

	body := rigid2d.NewBody(1, rigid2d.MomentForBox(1, 2, 2))
	body.Write(func(b *rigid2d.Body) { b.SetPosition(rigid2d.V(10, 0)) })
	if err := space.AddBody(body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	box, err := rigid2d.NewBox(body, 2, 2, 0)
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	if err := space.AddShape(box); err != nil {
		t.Fatalf("add box: %v", err)
	}
	box.Release()
	body.Release()

	fr := Capture(space, 0, 0)
	if len(fr.Shapes) != 1 || fr.Shapes[0].Kind != "poly" {
		t.Fatalf("expected one poly shape, got %+v", fr.Shapes)
	}
	pts := fr.Shapes[0].Points
	if len(pts) != 4 {
		t.Fatalf("expected 4 verts, got %d", len(pts))
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if minX != 9 || maxX != 11 || minY != -1 || maxY != 1 {
		t.Errorf("expected box spanning (9,-1)-(11,1), got (%v,%v)-(%v,%v)", minX, minY, maxX, maxY)
	}
}
