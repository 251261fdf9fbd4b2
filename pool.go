package genarena

import (
	"math"

	"github.com/hupe1980/genarena/internal/conv"
)

// Pool is a generational arena: a slot map with O(1) insert and remove that
// hands out Handles instead of pointers.
//
// # Concurrency Model
//
// Pool is a single-writer data structure with no internal locks. Exactly one
// goroutine may insert or remove at a time; a Pool may be shared for reading
// when no writer is active. Freeze produces an immutable view that any number
// of goroutines may read, and Snapshot produces a copy-on-write view that can
// be handed to another goroutine.
type Pool[T any] struct {
	c core[T]
}

// New creates an empty pool.
func New[T any](opts ...Option) *Pool[T] {
	return &Pool[T]{c: newCore[T](applyOptions(opts))}
}

func (p *Pool[T]) accessCore() *core[T] { return &p.c }

// Insert stores v and returns its handle.
//
// A free slot is reused if one exists (most recently freed first); otherwise
// a slot is appended. A bounded pool at capacity returns a Full InsertError,
// and failed growth returns an Alloc InsertError. Either way the error
// carries v back to the caller.
func (p *Pool[T]) Insert(v T) (Handle[T], error) {
	p.c.mustMutate("Insert")
	h, err := p.c.insert(v)
	p.c.opts.metricsCollector.RecordInsert(err)
	return h, err
}

// Remove extracts the element named by h. It returns false, without
// panicking, if h is stale, foreign or out of bounds.
func (p *Pool[T]) Remove(h Handle[T]) (T, bool) {
	p.c.mustMutate("Remove")
	v, ok := p.c.remove(h)
	p.c.opts.metricsCollector.RecordRemove(ok)
	return v, ok
}

// Get returns a copy of the element named by h.
func (p *Pool[T]) Get(h Handle[T]) (T, bool) { return p.c.get(h) }

// GetClone returns a deep copy of the element named by h if T implements
// Cloner[T], and a plain copy otherwise.
func (p *Pool[T]) GetClone(h Handle[T]) (T, bool) { return p.c.getClone(h) }

// At returns the element named by h and panics if h is not valid.
// Use it where validity is already established.
func (p *Pool[T]) At(h Handle[T]) T { return p.c.at(h) }

// Contains reports whether h names a live element.
func (p *Pool[T]) Contains(h Handle[T]) bool { return p.c.lookup(h) != nil }

// Check validates h and reports why it is rejected, if it is.
func (p *Pool[T]) Check(h Handle[T]) Validity { return p.c.check(h) }

// Clear removes every element. Generations advance as if each element had
// been removed individually, so all outstanding handles become stale.
// It returns the number of removed elements.
func (p *Pool[T]) Clear() int {
	p.c.mustMutate("Clear")
	return p.c.clear()
}

// ShrinkToFit drops trailing free slots and releases unused backing
// capacity. Occupied slots never move, so outstanding handles stay valid;
// stale handles into dropped slots stay stale after those indices are
// reused. It returns the number of dropped slots.
func (p *Pool[T]) ShrinkToFit() int {
	p.c.mustMutate("ShrinkToFit")
	return p.c.shrink()
}

// Reserve grows the backing array so n more slots fit without reallocation.
func (p *Pool[T]) Reserve(n int) {
	p.c.mustMutate("Reserve")
	// Room already fits: a shared buffer stays shared.
	if n <= 0 || p.c.store.Cap()-p.c.store.Len() >= n {
		return
	}
	p.c.own()
	p.c.store.Reserve(n)
}

// Len returns the number of live elements.
func (p *Pool[T]) Len() int { return p.c.store.Live() }

// Slots returns the number of slots, occupied, free or retired.
func (p *Pool[T]) Slots() int { return p.c.store.Len() }

// Capacity returns the number of slots the pool holds without reallocating.
func (p *Pool[T]) Capacity() int { return p.c.store.Cap() }

// IsBounded reports whether the pool was created with WithBound.
func (p *Pool[T]) IsBounded() bool { return p.c.opts.bound != 0 }

// Bound returns the slot bound, or 0 for an unbounded pool.
func (p *Pool[T]) Bound() int {
	n, err := conv.Uint32ToInt(p.c.opts.bound)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// Retired returns the number of permanently retired slots.
func (p *Pool[T]) Retired() int { return p.c.store.Retired() }

// ArenaID returns the process-unique identity embedded in issued handles.
func (p *Pool[T]) ArenaID() uint32 { return p.c.id }

// Version returns a counter that advances on every committed mutation.
func (p *Pool[T]) Version() uint64 { return p.c.version }
