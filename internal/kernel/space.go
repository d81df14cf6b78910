package kernel

import "math"

// Space is a simulation container. It owns no locking: one goroutine at
// a time may use a space, and membership cannot change during Step.
type Space struct {
	id uint64

	gravity    Vec
	damping    float64
	iterations int

	collisionSlop        float64
	collisionBias        float64
	collisionPersistence uint64

	idleSpeedThreshold float64
	sleepTimeThreshold float64

	stamp uint64

	bodies        []*Body
	dynamicShapes []*Shape
	staticShapes  []*Shape

	activeGrid  *spatialGrid
	staticGrid  *spatialGrid
	staticDirty bool
	cellDim     float64 // 0 means derive from shape sizes

	arbiters  map[shapePair]*Arbiter
	solveList []*Arbiter
	seen      map[shapePair]struct{}

	handler *CollisionHandler

	stepping bool
}

// NewSpace creates an empty space with zero gravity, no damping, ten
// solver iterations and sleeping disabled.
func NewSpace() *Space {
	s := &Space{
		damping:              1.0,
		iterations:           10,
		collisionSlop:        0.1,
		collisionBias:        math.Pow(0.9, 60),
		collisionPersistence: 3,
		sleepTimeThreshold:   math.Inf(1),
		activeGrid:           newSpatialGrid(1),
		staticGrid:           newSpatialGrid(1),
		arbiters:             make(map[shapePair]*Arbiter),
		seen:                 make(map[shapePair]struct{}),
	}
	s.id = register(s)
	return s
}

// Destroy releases the space. Members are detached, not destroyed; they
// can be added to another space or destroyed separately afterwards.
func (s *Space) Destroy() {
	unregister(s.id, "space")
	for _, sh := range s.dynamicShapes {
		sh.space = nil
	}
	for _, sh := range s.staticShapes {
		sh.space = nil
	}
	for _, b := range s.bodies {
		b.space = nil
	}
	s.bodies = nil
	s.dynamicShapes = nil
	s.staticShapes = nil
	clear(s.arbiters)
}

func (s *Space) Gravity() Vec     { return s.gravity }
func (s *Space) SetGravity(g Vec) { s.gravity = g }

func (s *Space) Damping() float64 { return s.damping }

// SetDamping sets the fraction of velocity a body keeps over one second.
func (s *Space) SetDamping(d float64) { s.damping = d }

func (s *Space) Iterations() int { return s.iterations }

// SetIterations sets the solver iteration count. Values below one are
// clamped to one.
func (s *Space) SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.iterations = n
}

func (s *Space) CollisionSlop() float64     { return s.collisionSlop }
func (s *Space) SetCollisionSlop(v float64) { s.collisionSlop = v }

func (s *Space) CollisionBias() float64     { return s.collisionBias }
func (s *Space) SetCollisionBias(v float64) { s.collisionBias = v }

func (s *Space) CollisionPersistence() uint64     { return s.collisionPersistence }
func (s *Space) SetCollisionPersistence(v uint64) { s.collisionPersistence = v }

func (s *Space) IdleSpeedThreshold() float64     { return s.idleSpeedThreshold }
func (s *Space) SetIdleSpeedThreshold(v float64) { s.idleSpeedThreshold = v }

func (s *Space) SleepTimeThreshold() float64     { return s.sleepTimeThreshold }
func (s *Space) SetSleepTimeThreshold(v float64) { s.sleepTimeThreshold = v }

// SetCollisionHandler installs the handler receiving contact events for
// every colliding pair.
func (s *Space) SetCollisionHandler(h *CollisionHandler) { s.handler = h }

// Stamp returns the number of completed steps.
func (s *Space) Stamp() uint64 { return s.stamp }

// AddBody adds a body to the space. Bodies already in any space are
// rejected.
func (s *Space) AddBody(b *Body) error {
	if s.stepping {
		return ErrSpaceLocked
	}
	if b.space != nil {
		return ErrAlreadyAdded
	}
	b.space = s
	s.bodies = append(s.bodies, b)
	return nil
}

// RemoveBody removes a body from the space. Arbiters touching the body
// fire their separate callback and are dropped.
func (s *Space) RemoveBody(b *Body) error {
	if s.stepping {
		return ErrSpaceLocked
	}
	if b.space != s {
		return ErrNotAdded
	}
	s.filterArbiters(b, nil)
	for i, sb := range s.bodies {
		if sb == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
	b.space = nil
	return nil
}

// AddShape adds a shape to the space. The shape must have a live body;
// shapes already in any space are rejected.
func (s *Space) AddShape(sh *Shape) error {
	if s.stepping {
		return ErrSpaceLocked
	}
	if sh.body == nil {
		return ErrNoBody
	}
	if sh.space != nil {
		return ErrAlreadyAdded
	}
	sh.space = s
	sh.cacheBB()
	if sh.body.btyp == BodyStatic {
		s.staticShapes = append(s.staticShapes, sh)
		s.staticDirty = true
	} else {
		s.dynamicShapes = append(s.dynamicShapes, sh)
	}
	return nil
}

// RemoveShape removes a shape from the space.
func (s *Space) RemoveShape(sh *Shape) error {
	if s.stepping {
		return ErrSpaceLocked
	}
	if sh.space != s {
		return ErrNotAdded
	}
	s.filterArbiters(nil, sh)
	lists := []*[]*Shape{&s.dynamicShapes, &s.staticShapes}
	for _, list := range lists {
		for i, ss := range *list {
			if ss == sh {
				*list = append((*list)[:i], (*list)[i+1:]...)
				break
			}
		}
	}
	sh.space = nil
	s.staticDirty = true
	return nil
}

// filterArbiters drops cached arbiters touching body or shape, firing
// separate callbacks for pairs that were touching.
func (s *Space) filterArbiters(body *Body, shape *Shape) {
	for key, arb := range s.arbiters {
		match := (body != nil && arb.touchesBody(body)) ||
			(shape != nil && (arb.a == shape || arb.b == shape))
		if !match {
			continue
		}
		if arb.state == arbiterFirst || arb.state == arbiterNormal {
			if h := s.handler; h != nil && h.Separate != nil {
				h.Separate(arb)
			}
		}
		delete(s.arbiters, key)
	}
}

// ReindexStatic recomputes the bounding boxes of all static shapes and
// rebuilds the static index. Call after moving a static body.
func (s *Space) ReindexStatic() {
	for _, sh := range s.staticShapes {
		sh.cacheBB()
	}
	s.staticDirty = true
}

// ReindexShape recomputes one shape's bounding box.
func (s *Space) ReindexShape(sh *Shape) {
	sh.cacheBB()
	if b := sh.body; b != nil && b.btyp == BodyStatic {
		s.staticDirty = true
	}
}

// ReindexShapesForBody recomputes the bounding boxes of all of a body's
// shapes.
func (s *Space) ReindexShapesForBody(b *Body) {
	for _, sh := range b.shapes {
		s.ReindexShape(sh)
	}
}

// UseSpatialHash fixes the broad-phase cell size instead of deriving it
// from shape sizes. count is a capacity hint and may be zero.
func (s *Space) UseSpatialHash(dim float64, count int) {
	_ = count
	s.cellDim = dim
	s.staticDirty = true
}

// Step advances the simulation. Velocities integrate first, then the
// broad and narrow phases run, contacts are solved, and positions
// advance. Membership cannot change during the step; callbacks trying
// to do so get [ErrSpaceLocked].
func (s *Space) Step(dt float64) {
	if dt <= 0 {
		return
	}
	if s.stepping {
		panic("kernel: recursive call to Step")
	}
	s.stepping = true
	defer func() { s.stepping = false }()

	s.stamp++

	gravity := s.gravity
	damping := math.Pow(s.damping, dt)
	bodies := s.bodies
	parallelFor(len(bodies), 64, func(start, end int) {
		for _, b := range bodies[start:end] {
			if !b.sleeping {
				b.updateVelocity(gravity, damping, dt)
			}
		}
	})

	for _, sh := range s.dynamicShapes {
		if b := sh.body; b != nil && !b.sleeping {
			sh.cacheBB()
		}
	}

	dim := s.cellDim
	if dim <= 0 {
		dim = autoCellSize(s.dynamicShapes, s.staticShapes)
	}
	if s.staticDirty {
		s.staticGrid.reset(dim)
		for _, sh := range s.staticShapes {
			s.staticGrid.insert(sh)
		}
		s.staticDirty = false
	}
	s.activeGrid.reset(dim)
	for _, sh := range s.dynamicShapes {
		s.activeGrid.insert(sh)
	}

	clear(s.seen)
	s.activeGrid.pairs(s.seen, s.collideShapes)
	for _, sh := range s.dynamicShapes {
		s.staticGrid.query(sh.bb, func(st *Shape) {
			a, b := orderShapes(sh, st)
			pair := shapePair{a, b}
			if _, dup := s.seen[pair]; dup {
				return
			}
			s.seen[pair] = struct{}{}
			if a.bb.Intersects(b.bb) {
				s.collideShapes(a, b)
			}
		})
	}

	// Retire arbiters for pairs that stopped touching. Pairs between
	// sleeping or static bodies are preserved untouched so waking does
	// not replay their begin callbacks.
	for key, arb := range s.arbiters {
		a, b := arb.a.body, arb.b.body
		if a != nil && b != nil &&
			(a.btyp == BodyStatic || a.sleeping) &&
			(b.btyp == BodyStatic || b.sleeping) {
			continue
		}
		ticks := s.stamp - arb.stamp
		if ticks >= 1 && arb.state != arbiterCached {
			arb.state = arbiterCached
			if h := s.handler; h != nil && h.Separate != nil {
				h.Separate(arb)
			}
		}
		if ticks >= s.collisionPersistence {
			delete(s.arbiters, key)
		}
	}

	slop := s.collisionSlop
	bias := 1 - math.Pow(s.collisionBias, dt)
	for _, arb := range s.solveList {
		arb.preStep(dt, slop, bias)
	}
	for i := 0; i < s.iterations; i++ {
		for _, arb := range s.solveList {
			arb.applyImpulse()
		}
	}
	if h := s.handler; h != nil && h.PostSolve != nil {
		for _, arb := range s.solveList {
			h.PostSolve(arb)
		}
	}
	for _, arb := range s.solveList {
		arb.state = arbiterNormal
	}
	s.solveList = s.solveList[:0]

	parallelFor(len(bodies), 64, func(start, end int) {
		for _, b := range bodies[start:end] {
			if b.btyp != BodyStatic && !b.sleeping {
				b.updatePosition(dt)
			}
		}
	})

	s.processSleeping(dt)
}

// collideShapes runs the narrow phase for one broad-phase pair and
// drives the arbiter state machine and callbacks.
func (s *Space) collideShapes(a, b *Shape) {
	ba, bb := a.body, b.body
	if ba == nil || bb == nil || ba == bb {
		return
	}
	if (ba.sleeping || ba.btyp == BodyStatic) && (bb.sleeping || bb.btyp == BodyStatic) {
		return
	}

	info := collide(a, b)
	if info.count == 0 {
		return
	}

	pair := shapePair{a, b}
	arb, ok := s.arbiters[pair]
	if !ok {
		arb = &Arbiter{a: a, b: b, state: arbiterFirst}
		s.arbiters[pair] = arb
	}
	arb.update(info)

	if ba.sleeping {
		ba.Activate()
	}
	if bb.sleeping {
		bb.Activate()
	}

	h := s.handler
	if arb.state == arbiterFirst && h != nil && h.Begin != nil && !h.Begin(arb) {
		arb.state = arbiterIgnore
	}

	solvable := !a.sensor && !b.sensor && !(immovable(ba) && immovable(bb))
	if arb.state != arbiterIgnore &&
		(h == nil || h.PreSolve == nil || h.PreSolve(arb)) &&
		solvable {
		s.solveList = append(s.solveList, arb)
	} else if arb.state != arbiterIgnore {
		// Sensors and rejected pairs skip the solver and its post-solve
		// callback, so mark them used here.
		arb.state = arbiterNormal
	}
	arb.stamp = s.stamp
}

// immovable reports whether no impulse can move the body.
func immovable(b *Body) bool {
	return b.mInv == 0 && b.iInv == 0
}

// processSleeping advances idle timers and puts bodies whose kinetic
// energy stayed below threshold for long enough to sleep.
func (s *Space) processSleeping(dt float64) {
	if math.IsInf(s.sleepTimeThreshold, 1) {
		return
	}
	dv := s.idleSpeedThreshold
	dvsq := dv * dv
	if dv == 0 {
		dvsq = s.gravity.LengthSq() * dt * dt
	}
	for _, b := range s.bodies {
		if b.btyp != BodyDynamic || b.sleeping {
			continue
		}
		keThreshold := 0.0
		if dvsq != 0 {
			keThreshold = b.m * dvsq
		}
		if b.KineticEnergy() > keThreshold {
			b.idleTime = 0
			continue
		}
		b.idleTime += dt
		if b.idleTime >= s.sleepTimeThreshold {
			b.Sleep()
		}
	}
}
