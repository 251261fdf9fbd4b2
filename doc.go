// Package genarena provides a generational handle arena for Go.
//
// A Pool stores values in slots and hands out small, copyable Handles instead
// of pointers. Handles are plain data: they can be stored in other elements,
// copied, compared, sent across goroutines and passed to foreign code. Graphs,
// trees with parent links and entity tables are expressed with handles, never
// with stored pointers.
//
// # Quick Start
//
//	p := genarena.New[string]()
//	h, _ := p.Insert("hello")
//	v, ok := p.Get(h)       // "hello", true
//	p.Remove(h)             // "hello", true
//	_, ok = p.Get(h)        // false: h is stale forever
//
// # Handle Validation
//
// A handle is valid iff it was issued by the pool it is presented to, its
// index is in bounds, the slot's generation equals the handle's and the slot
// is occupied. Checks run in that order. Generations advance on removal and
// saturate: a slot whose generation reaches the ceiling is retired and never
// reused.
//
// Stale, foreign and out-of-bounds handles make the comma-ok accessors return
// false. They are an expected runtime condition, not an error. At is the
// panicking escape hatch for callers who already know a handle is valid.
//
// # Multi-Statement Access
//
// Read, Modify and ModifyMany run a closure against validated elements.
// While a closure runs, structural mutation of the same pool panics:
//
//	genarena.Modify(p, h, func(v *Node) struct{} {
//	    v.Visits++
//	    return struct{}{}
//	})
//
// # Views
//
//   - Freeze returns an immutable FrozenView with unvalidated, bounds-checked
//     access. It is the way to fan data out to worker goroutines.
//   - Snapshot returns a copy-on-write SnapshotView that shares storage with
//     the pool until either side mutates.
//
// # Resource Pools
//
// ResourcePool holds elements that must be consumed exactly once. It refuses
// to be closed, or garbage collected, while elements remain.
//
// # Errors
//
//   - Insert returns *InsertError (matching ErrFull or ErrAlloc) and always
//     carries the rejected element back.
//   - Duplicate handles in ModifyMany, mutation from inside an access closure
//     and closing a non-empty ResourcePool panic.
package genarena
