package rigid2d

import (
	"sync"

	"github.com/san-kum/rigid2d/internal/kernel"
)

// Space aggregates bodies and shapes and advances them through time. It
// stores a strong reference to every member, so members stay alive at
// least as long as they remain added, no matter what the caller does
// with its own handles.
//
// Membership calls (Add*, Remove*, Close) are safe to call from any
// goroutine; each scan-and-mutate runs as one critical section.
// Everything else, stepping, tunables, reindexing and iteration, belongs
// to a single simulation goroutine per space.
//
// Collision callbacks must not call membership methods. During Step they
// fail with [ErrSpaceLocked]; a Separate callback fired by a removal
// would deadlock on the membership lock. Collect changes in the callback
// and apply them afterwards.
type Space struct {
	mu     sync.Mutex
	ref    *kernel.Space
	bodies []*BodyHandle
	shapes []*ShapeHandle
	closed bool
}

// NewSpace creates an empty space with zero gravity, no damping, ten
// solver iterations and sleeping disabled.
func NewSpace() *Space {
	return &Space{ref: kernel.NewSpace()}
}

// Close removes every member, releases the space's strong references and
// destroys the kernel space. Members whose last reference was held by
// the space are destroyed; members the caller still has handles to stay
// alive and can be added to another space. Close is idempotent and must
// not run concurrently with Step.
func (s *Space) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	// Teardown is silent: no separate callbacks fire for pairs dropped
	// by the removals below.
	s.ref.SetCollisionHandler(nil)

	// Shapes detach first: a body whose last handle lives in s.bodies
	// must not be destroyed while its shapes are still registered.
	for _, h := range s.shapes {
		h.Write(func(sh *Shape) { _ = s.ref.RemoveShape(sh.ref) })
		h.Release()
	}
	s.shapes = nil
	for _, h := range s.bodies {
		h.Write(func(b *Body) { _ = s.ref.RemoveBody(b.ref) })
		h.Release()
	}
	s.bodies = nil

	s.ref.Destroy()
	return nil
}

func (s *Space) Gravity() Vect     { return s.ref.Gravity() }
func (s *Space) SetGravity(g Vect) { s.ref.SetGravity(g) }

func (s *Space) Damping() float64 { return s.ref.Damping() }

// SetDamping sets the fraction of velocity a body keeps over one second.
func (s *Space) SetDamping(d float64) { s.ref.SetDamping(d) }

func (s *Space) Iterations() int { return s.ref.Iterations() }

// SetIterations sets the solver iteration count. More iterations trade
// time for stiffer contacts.
func (s *Space) SetIterations(n int) { s.ref.SetIterations(n) }

// CollisionSlop is the amount of overlap the solver leaves uncorrected.
func (s *Space) CollisionSlop() float64     { return s.ref.CollisionSlop() }
func (s *Space) SetCollisionSlop(v float64) { s.ref.SetCollisionSlop(v) }

// CollisionBias is the fraction of overlap remaining after one second of
// position correction.
func (s *Space) CollisionBias() float64     { return s.ref.CollisionBias() }
func (s *Space) SetCollisionBias(v float64) { s.ref.SetCollisionBias(v) }

// CollisionPersistence is how many steps a separated contact is kept
// around before it is forgotten.
func (s *Space) CollisionPersistence() uint64     { return s.ref.CollisionPersistence() }
func (s *Space) SetCollisionPersistence(v uint64) { s.ref.SetCollisionPersistence(v) }

// IdleSpeedThreshold is the speed below which a body counts as idle for
// sleeping. Zero derives the threshold from gravity.
func (s *Space) IdleSpeedThreshold() float64     { return s.ref.IdleSpeedThreshold() }
func (s *Space) SetIdleSpeedThreshold(v float64) { s.ref.SetIdleSpeedThreshold(v) }

// SleepTimeThreshold is how long a body must stay idle before it falls
// asleep. Infinite disables sleeping.
func (s *Space) SleepTimeThreshold() float64     { return s.ref.SleepTimeThreshold() }
func (s *Space) SetSleepTimeThreshold(v float64) { s.ref.SetSleepTimeThreshold(v) }

// SetCollisionHandler installs the handler receiving contact events for
// every colliding pair during Step. A nil handler removes it.
func (s *Space) SetCollisionHandler(h *CollisionHandler) {
	s.ref.SetCollisionHandler(kernelHandler(h))
}

// Stamp returns the number of completed steps.
func (s *Space) Stamp() uint64 { return s.ref.Stamp() }

// AddBody adds a body to the space and stores a strong reference to it.
// Bodies already in any space are rejected with [ErrAlreadyInSpace].
func (s *Space) AddBody(h *BodyHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSpaceClosed
	}
	var err error
	h.Write(func(b *Body) { err = s.ref.AddBody(b.ref) })
	if err != nil {
		return err
	}
	s.bodies = append(s.bodies, h.Clone())
	return nil
}

// RemoveBody removes a body from the space. The member is located by
// kernel identity, so any handle cloned from the added one works. The
// kernel removal is attempted even when the space holds no matching
// reference, and its verdict is returned; the stored reference is
// released only on success.
func (s *Space) RemoveBody(h *BodyHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSpaceClosed
	}
	var err error
	var target *kernel.Body
	h.Write(func(b *Body) {
		target = b.ref
		err = s.ref.RemoveBody(b.ref)
	})
	if err != nil {
		return err
	}
	for i, held := range s.bodies {
		var match bool
		held.Read(func(b *Body) { match = b.ref == target })
		if match {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			held.Release()
			break
		}
	}
	return nil
}

// AddShape adds a shape to the space and stores a strong reference to
// it. The shape's owning body must still be alive; orphaned shapes are
// rejected with [ErrBodyGone], shapes already in any space with
// [ErrAlreadyInSpace].
func (s *Space) AddShape(h *ShapeHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSpaceClosed
	}
	var err error
	h.Write(func(sh *Shape) {
		// Hold the owner's write view so registration cannot race the
		// body's destruction.
		owner, ok := sh.owner.Upgrade()
		if !ok {
			err = ErrBodyGone
			return
		}
		defer owner.Release()
		owner.Write(func(*Body) { err = s.ref.AddShape(sh.ref) })
	})
	if err != nil {
		return err
	}
	s.shapes = append(s.shapes, h.Clone())
	return nil
}

// RemoveShape removes a shape from the space. The member is located by
// kernel identity; the kernel removal is attempted regardless and its
// verdict returned.
func (s *Space) RemoveShape(h *ShapeHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSpaceClosed
	}
	var err error
	var target *kernel.Shape
	h.Write(func(sh *Shape) {
		target = sh.ref
		err = s.ref.RemoveShape(sh.ref)
	})
	if err != nil {
		return err
	}
	for i, held := range s.shapes {
		var match bool
		held.Read(func(sh *Shape) { match = sh.ref == target })
		if match {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			held.Release()
			break
		}
	}
	return nil
}

// ContainsBody reports whether a body matching h by kernel identity is
// a member of the space.
func (s *Space) ContainsBody(h *BodyHandle) bool {
	var target *kernel.Body
	h.Read(func(b *Body) { target = b.ref })

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, held := range s.bodies {
		var match bool
		held.Read(func(b *Body) { match = b.ref == target })
		if match {
			return true
		}
	}
	return false
}

// ContainsShape reports whether a shape matching h by kernel identity
// is a member of the space.
func (s *Space) ContainsShape(h *ShapeHandle) bool {
	var target *kernel.Shape
	h.Read(func(sh *Shape) { target = sh.ref })

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, held := range s.shapes {
		var match bool
		held.Read(func(sh *Shape) { match = sh.ref == target })
		if match {
			return true
		}
	}
	return false
}

// BodyCount returns the number of member bodies.
func (s *Space) BodyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

// ShapeCount returns the number of member shapes.
func (s *Space) ShapeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapes)
}

// EachBody calls fn with each member body's handle. The handle is
// borrowed: fn must not release it or call membership methods on the
// space.
func (s *Space) EachBody(fn func(h *BodyHandle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.bodies {
		fn(h)
	}
}

// EachShape calls fn with each member shape's handle. The handle is
// borrowed: fn must not release it or call membership methods on the
// space.
func (s *Space) EachShape(fn func(h *ShapeHandle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.shapes {
		fn(h)
	}
}

// Step advances the simulation by dt seconds. Collision callbacks fire
// from inside this call. Step must not run concurrently with itself or
// with Close.
func (s *Space) Step(dt float64) {
	s.ref.Step(dt)
}

// ReindexStatic recomputes the cached bounds of all static shapes. Call
// after moving a static body.
func (s *Space) ReindexStatic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ref.ReindexStatic()
}

// ReindexShape recomputes one shape's cached bounds.
func (s *Space) ReindexShape(h *ShapeHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	h.Write(func(sh *Shape) { s.ref.ReindexShape(sh.ref) })
}

// ReindexShapesForBody recomputes the cached bounds of all of a body's
// shapes.
func (s *Space) ReindexShapesForBody(h *BodyHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	h.Write(func(b *Body) { s.ref.ReindexShapesForBody(b.ref) })
}

// UseSpatialHash fixes the broad-phase cell size instead of deriving it
// from shape sizes. count is a capacity hint and may be zero.
func (s *Space) UseSpatialHash(dim float64, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ref.UseSpatialHash(dim, count)
}
