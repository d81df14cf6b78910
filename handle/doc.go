// Package handle provides reference-counted, lock-guarded shared ownership
// of a mutable payload.
//
// The package defines the ownership primitive the rest of the library is
// built on:
//
//   - [Handle]: a strong, counted reference to a guarded payload
//   - [Weak]: a non-owning reference that can be upgraded while the
//     payload is still alive
//
// A payload wrapped with [New] is destroyed exactly once, by running its
// release function when the last strong handle is released. Cloning a
// handle is O(1) and yields a reference to the same payload, never a copy.
//
// # Access
//
// All access to the payload flows through scoped views:
//
//	h := handle.New(thing, func(t *Thing) { t.free() })
//	h.Read(func(t *Thing) { _ = t.Value })
//	h.Write(func(t *Thing) { t.Value = 7 })
//
// [Handle.Read] admits any number of concurrent readers; [Handle.Write]
// admits exactly one writer and no readers. Both block until the requested
// access is available, with no timeout and no fairness guarantee. The view
// is released on every exit path, including a panic inside the closure.
//
// # Weak references
//
// [Handle.Downgrade] produces a [Weak] that does not keep the payload
// alive. [Weak.Upgrade] returns a new strong handle, or reports false once
// the last strong handle has been released; an upgrade can never observe a
// payload whose release function has started.
//
// # Fatal conditions
//
// A panic inside a Write view poisons the cell: the payload may be half
// mutated, so every later access panics rather than proceeding. Releasing
// a handle twice, or using a handle after releasing it, also panics. These
// are programming errors, not recoverable conditions.
package handle
