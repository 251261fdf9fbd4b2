package genarena

import (
	"iter"
	"runtime"
	"sync"

	"github.com/hupe1980/genarena/internal/slot"
)

// shareGroup counts the cores that still reference one storage buffer.
type shareGroup struct {
	mu      sync.Mutex
	members int
}

// shareTicket is one core's membership in a shareGroup.
type shareTicket struct {
	g    *shareGroup
	done bool // guarded by g.mu
}

func (t *shareTicket) release() {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if !t.done {
		t.done = true
		t.g.members--
	}
}

// SnapshotView is a copy-on-write view of a pool at a point in time.
//
// A new snapshot shares storage with its pool. The first mutation on either
// side copies the storage for the mutating side, after which the two evolve
// independently: the snapshot never observes later pool mutations and the
// pool never observes mutations made through the snapshot. Elements of the
// snapshot may be modified with Modify and ModifyMany, but elements can
// never be inserted or removed through it. Handles issued by the pool before
// the snapshot remain valid against it.
//
// An unmutated SnapshotView may be read from several goroutines while the
// pool keeps mutating on its own goroutine. A SnapshotView that is being
// mutated has a single writer, like a Pool.
type SnapshotView[T any] struct {
	c       core[T]
	cleanup runtime.Cleanup
}

// Snapshot returns a copy-on-write view of the pool and the pool's Version
// at the snapshot point. It costs O(1); the copy is deferred to the first
// mutation.
func (p *Pool[T]) Snapshot() (*SnapshotView[T], uint64) {
	return snapshot(&p.c), p.c.version
}

func snapshot[T any](c *core[T]) *SnapshotView[T] {
	if c.share == nil {
		c.share = &shareTicket{g: &shareGroup{members: 1}}
	}
	g := c.share.g
	g.mu.Lock()
	g.members++
	g.mu.Unlock()

	t := &shareTicket{g: g}
	v := &SnapshotView[T]{
		c: core[T]{
			id:        c.id,
			store:     c.store,
			share:     t,
			version:   c.version,
			slotBytes: c.slotBytes,
			side:      "snapshot",
			opts:      c.opts,
			log:       c.log,
		},
	}
	// A dropped view must not force its pool into a needless copy.
	v.cleanup = runtime.AddCleanup(v, (*shareTicket).release, t)
	return v
}

func (v *SnapshotView[T]) accessCore() *core[T] { return &v.c }

// Get returns a copy of the element named by h.
func (v *SnapshotView[T]) Get(h Handle[T]) (T, bool) { return v.c.get(h) }

// GetClone returns a deep copy of the element named by h (see Cloner).
func (v *SnapshotView[T]) GetClone(h Handle[T]) (T, bool) { return v.c.getClone(h) }

// At returns the element named by h and panics if h is not valid.
func (v *SnapshotView[T]) At(h Handle[T]) T { return v.c.at(h) }

// Contains reports whether h names a live element of the snapshot.
func (v *SnapshotView[T]) Contains(h Handle[T]) bool { return v.c.lookup(h) != nil }

// Check validates h against the snapshot.
func (v *SnapshotView[T]) Check(h Handle[T]) Validity { return v.c.check(h) }

// Len returns the number of live elements.
func (v *SnapshotView[T]) Len() int { return v.c.store.Live() }

// Slots returns the number of slots.
func (v *SnapshotView[T]) Slots() int { return v.c.store.Len() }

// ArenaID returns the identity of the source pool.
func (v *SnapshotView[T]) ArenaID() uint32 { return v.c.id }

// Version returns the snapshot's own mutation counter. It starts at the
// pool's Version at the snapshot point.
func (v *SnapshotView[T]) Version() uint64 { return v.c.version }

// Cursor returns a cursor over the snapshot's slots.
func (v *SnapshotView[T]) Cursor() *Cursor[T] { return newCursor(&v.c) }

// Handles returns an iterator over the handles of live elements.
func (v *SnapshotView[T]) Handles() iter.Seq[Handle[T]] { return handles(&v.c) }

// All returns an iterator over live elements and their handles.
func (v *SnapshotView[T]) All() iter.Seq2[Handle[T], T] { return all(&v.c) }

// Freeze captures the snapshot's contents as a FrozenView.
func (v *SnapshotView[T]) Freeze() *FrozenView[T] { return freeze(&v.c) }

// Diverged reports whether the snapshot owns its storage exclusively,
// either because one side has been mutated or because the snapshot was
// released.
func (v *SnapshotView[T]) Diverged() bool {
	t := v.c.share
	if t == nil {
		return true
	}
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	return t.done || t.g.members <= 1
}

// Release discards the snapshot. The pool no longer needs to copy its
// storage on account of this view, and the view reads as empty afterwards.
func (v *SnapshotView[T]) Release() {
	v.c.mustMutate("Release")
	if v.c.share != nil {
		v.c.share.release()
		v.c.share = nil
	}
	v.cleanup.Stop()
	v.c.store = slot.New[T](0, v.c.store.MaxGeneration())
	v.c.version++
}
