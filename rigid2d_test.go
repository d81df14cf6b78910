package rigid2d

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/kernel"
)

func TestLifecycleDestroysExactlyOnce(t *testing.T) {
	g := NewWithT(t)
	before := kernel.Live()

	b := NewBody(1, 1)
	g.Expect(kernel.Live()).To(Equal(before + 1))
	b.Release()
	g.Expect(kernel.Live()).To(Equal(before))
}

func TestCloneExtendsLifetime(t *testing.T) {
	g := NewWithT(t)
	before := kernel.Live()

	b := NewBody(1, 1)
	clones := make([]*BodyHandle, 3)
	for i := range clones {
		clones[i] = b.Clone()
	}
	b.Release()
	for _, c := range clones {
		g.Expect(kernel.Live()).To(Equal(before+1), "payload must outlive remaining clones")
		c.Release()
	}
	g.Expect(kernel.Live()).To(Equal(before))
}

func TestWeakNeverOutlivesPayload(t *testing.T) {
	g := NewWithT(t)

	b := NewBody(1, 1)
	weak := b.Downgrade()

	strong, ok := weak.Upgrade()
	g.Expect(ok).To(BeTrue())
	strong.Release()

	b.Release()
	_, ok = weak.Upgrade()
	g.Expect(ok).To(BeFalse(), "upgrade after the final release must report absence")
}

func TestWriterExcludesReaders(t *testing.T) {
	g := NewWithT(t)
	b := NewBody(1, 1)
	defer b.Release()

	writing := make(chan struct{})
	done := make(chan struct{})
	go func() {
		b.Write(func(body *Body) {
			close(writing)
			time.Sleep(50 * time.Millisecond)
			body.SetPosition(V(9, 9))
		})
		close(done)
	}()

	<-writing
	var got Vect
	b.Read(func(body *Body) { got = body.Position() })
	// The read blocked until the write view was released, so it observes
	// the fully applied update, never a partial one.
	g.Expect(got).To(Equal(V(9, 9)))
	<-done
}

func TestReadersShareWriterWaits(t *testing.T) {
	g := NewWithT(t)
	b := NewBody(1, 1)
	defer b.Release()

	const readers = 4
	release := make(chan struct{})
	var entered, finished sync.WaitGroup
	entered.Add(readers)
	finished.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer finished.Done()
			b.Read(func(*Body) {
				entered.Done()
				<-release
			})
		}()
	}
	// All views are held at once; otherwise this would hang.
	entered.Wait()

	wrote := make(chan struct{})
	go func() {
		b.Write(func(body *Body) { body.SetMass(42) })
		close(wrote)
	}()

	select {
	case <-wrote:
		t.Fatal("writer ran while read views were outstanding")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	finished.Wait()
	<-wrote

	var mass float64
	b.Read(func(body *Body) { mass = body.Mass() })
	g.Expect(mass).To(Equal(42.0))
}

func TestAddRemoveLeavesMembershipUnchanged(t *testing.T) {
	g := NewWithT(t)
	s := NewSpace()
	defer s.Close()

	b := NewBody(1, 1)
	defer b.Release()
	clone := b.Clone()
	defer clone.Release()

	before := s.BodyCount()
	g.Expect(s.AddBody(b)).To(Succeed())
	g.Expect(s.RemoveBody(clone)).To(Succeed())
	g.Expect(s.BodyCount()).To(Equal(before))
}

func TestNegativeCoefficientsRejected(t *testing.T) {
	g := NewWithT(t)

	b := NewBody(1, 1)
	defer b.Release()
	s := NewCircle(b, 1, Vect{})
	defer s.Release()

	s.Write(func(sh *Shape) {
		g.Expect(sh.SetFriction(0.8)).To(Succeed())
		g.Expect(sh.SetFriction(-1)).To(MatchError(ErrNegativeFriction))
		g.Expect(sh.Friction()).To(Equal(0.8))

		g.Expect(sh.SetElasticity(0.6)).To(Succeed())
		g.Expect(sh.SetElasticity(-0.5)).To(MatchError(ErrNegativeElasticity))
		g.Expect(sh.Elasticity()).To(Equal(0.6))
	})
}

func TestGravityIntegration(t *testing.T) {
	g := NewWithT(t)

	s := NewSpace()
	defer s.Close()
	s.SetGravity(V(0, -100))

	body := NewBody(10, 0)
	defer body.Release()
	body.Write(func(b *Body) { b.SetPosition(V(0, 20)) })
	shape := NewCircle(body, 1, Vect{})
	defer shape.Release()

	g.Expect(s.AddBody(body)).To(Succeed())
	g.Expect(s.AddShape(shape)).To(Succeed())

	for i := 0; i < 40; i++ {
		s.Step(1.0 / 30)
	}

	var pos, vel Vect
	body.Read(func(b *Body) {
		pos = b.Position()
		vel = b.Velocity()
	})
	g.Expect(pos.Y).To(BeNumerically("<", 20), "gravity must pull the body down")
	g.Expect(vel.Y).To(BeNumerically("<", 0))
}

func TestWorldKeepsDroppedMemberAlive(t *testing.T) {
	g := NewWithT(t)

	s := NewSpace()
	defer s.Close()
	s.SetGravity(V(0, -100))

	floor := NewStaticBody()
	seg := NewSegment(floor, V(-10, 0), V(10, 0), 0)
	seg.Write(func(sh *Shape) {
		g.Expect(sh.SetElasticity(0.6)).To(Succeed())
	})
	g.Expect(s.AddBody(floor)).To(Succeed())
	g.Expect(s.AddShape(seg)).To(Succeed())

	// The only caller-held strong reference to the floor goes away; the
	// space's stored reference must keep it alive.
	floor.Release()

	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}

	seg.Read(func(sh *Shape) {
		owner, ok := sh.Body()
		g.Expect(ok).To(BeTrue(), "weak back-reference must still resolve")
		owner.Release()
	})
	seg.Release()
}

func TestOrphanedShapeStaysUsable(t *testing.T) {
	g := NewWithT(t)

	e := NewBody(2, 1)
	shape := NewCircle(e, 3, V(1, 0))
	defer shape.Release()

	// Drop every handle to the body without it ever joining a space.
	e.Release()

	shape.Write(func(sh *Shape) {
		_, ok := sh.Body()
		g.Expect(ok).To(BeFalse(), "weak back-reference must report absence")

		c, ok := sh.Circle()
		g.Expect(ok).To(BeTrue())
		g.Expect(c.Radius()).To(Equal(3.0))
		g.Expect(c.Offset()).To(Equal(V(1, 0)))
		g.Expect(sh.Area()).To(BeNumerically("~", 28.2743, 1e-3))
		g.Expect(sh.SetFriction(0.5)).To(Succeed())
		g.Expect(sh.SetDensity(1)).To(MatchError(ErrBodyGone))
	})
}

func TestDefaultCombiningAndOverride(t *testing.T) {
	g := NewWithT(t)

	s := restingScene(t, 0.2, 0.25, 0.5, 0.64)
	defer s.Close()

	var combined []float64
	var overridden []float64
	s.SetCollisionHandler(&CollisionHandler{
		PreSolve: func(a *Arbiter) bool {
			combined = append(combined, a.Friction())
			g.Expect(a.SetFriction(0.9)).To(Succeed())
			overridden = append(overridden, a.Friction())
			return true
		},
	})

	for i := 0; i < 60 && len(combined) < 2; i++ {
		s.Step(1.0 / 60)
	}
	g.Expect(len(combined)).To(BeNumerically(">=", 2), "expected sustained contact")

	// sqrt(0.25*0.64) = 0.4: the default geometric-mean combination is
	// back every step, so the override lasted exactly one step.
	g.Expect(combined[0]).To(BeNumerically("~", 0.4, 1e-9))
	g.Expect(combined[1]).To(BeNumerically("~", 0.4, 1e-9))
	g.Expect(overridden[0]).To(Equal(0.9))
}
