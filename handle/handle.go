package handle

import (
	"sync"
	"sync/atomic"
)

// cell is the shared, reference-counted block behind a set of handles.
// The payload is only ever touched with mu held.
type cell[T any] struct {
	mu       sync.RWMutex
	strong   atomic.Int64
	poisoned atomic.Bool
	value    T
	release  func(*T)
}

// Handle is a strong reference to a guarded payload. Handles are created
// by [New], [Handle.Clone] and [Weak.Upgrade], and each must be released
// exactly once. The zero value is not a valid handle.
type Handle[T any] struct {
	c        *cell[T]
	released atomic.Bool
}

// Weak is a non-owning reference to the payload of a [Handle]. It does not
// keep the payload alive. The zero value upgrades to nothing.
type Weak[T any] struct {
	c *cell[T]
}

// New moves value into a fresh cell with a strong count of one. The
// release function, if non-nil, runs exactly once, when the last strong
// handle is released.
func New[T any](value T, release func(*T)) *Handle[T] {
	c := &cell[T]{value: value, release: release}
	c.strong.Store(1)
	return &Handle[T]{c: c}
}

// Clone returns a new strong handle to the same payload, incrementing the
// strong count. The clone is indistinguishable in capability from the
// original and must itself be released.
func (h *Handle[T]) Clone() *Handle[T] {
	h.check()
	h.c.strong.Add(1)
	return &Handle[T]{c: h.c}
}

// Release drops this handle's strong reference. When the count reaches
// zero the payload's release function runs, under the write lock so it
// cannot overlap a late reader. Releasing a handle twice panics.
func (h *Handle[T]) Release() {
	if h.released.Swap(true) {
		panic("handle: release of released handle")
	}
	c := h.c
	if c.strong.Add(-1) != 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.release != nil {
		c.release(&c.value)
	}
}

// Read acquires a shared view of the payload for the duration of fn.
// It blocks while a write view is outstanding. Any number of read views
// may be held concurrently.
func (h *Handle[T]) Read(fn func(*T)) {
	h.check()
	c := h.c
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.poisoned.Load() {
		panic("handle: cell poisoned by earlier write panic")
	}
	fn(&c.value)
}

// Write acquires the exclusive view of the payload for the duration of fn.
// It blocks until no other view is outstanding. If fn panics the cell is
// poisoned before the panic continues: the payload may be half mutated and
// every subsequent access will refuse it.
func (h *Handle[T]) Write(fn func(*T)) {
	h.check()
	c := h.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned.Load() {
		panic("handle: cell poisoned by earlier write panic")
	}
	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			panic(r)
		}
	}()
	fn(&c.value)
}

// Downgrade returns a weak reference to the payload without affecting the
// strong count.
func (h *Handle[T]) Downgrade() Weak[T] {
	h.check()
	return Weak[T]{c: h.c}
}

// Upgrade attempts to mint a new strong handle. It reports false once the
// strong count has reached zero. The increment is a compare-and-swap loop
// over the count, so an upgrade and the final release are mutually
// exclusive: a payload whose release has started is never resurrected.
func (w Weak[T]) Upgrade() (*Handle[T], bool) {
	c := w.c
	if c == nil {
		return nil, false
	}
	for {
		n := c.strong.Load()
		if n == 0 {
			return nil, false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return &Handle[T]{c: c}, true
		}
	}
}

func (h *Handle[T]) check() {
	if h.released.Load() {
		panic("handle: use of released handle")
	}
}
