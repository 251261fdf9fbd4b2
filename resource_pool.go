package genarena

import (
	"context"
	"iter"
	"runtime"
)

// LeakHandler is invoked when a ResourcePool becomes unreachable while it
// still holds elements. It runs on the runtime's cleanup goroutine.
type LeakHandler func(err *LeakError)

// ResourcePool is a Pool for elements that must be consumed explicitly,
// such as open files or leased connections.
//
// Remove hands ownership back without releasing anything the element holds.
// TakeAll and Drain are the sanctioned way to empty the pool in bulk. Close
// panics with a *LeakError if any element is left. A pool that becomes
// unreachable without being emptied is reported to the LeakHandler, which by
// default logs the leak and panics, terminating the process.
//
// ResourcePool has no Get, Freeze or Snapshot: each would duplicate elements
// that must exist exactly once. Use Read and Modify to inspect them.
type ResourcePool[T any] struct {
	p       *Pool[T]
	state   *leakState[T]
	cleanup runtime.Cleanup
}

type leakState[T any] struct {
	c       *core[T]
	closed  bool
	handler LeakHandler
}

func (s *leakState[T]) check() {
	if s.closed {
		return
	}
	if live := s.c.store.Live(); live > 0 {
		s.handler(&LeakError{ArenaID: s.c.id, Live: live})
	}
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool[T any](opts ...Option) *ResourcePool[T] {
	p := New[T](opts...)

	handler := p.c.opts.leakHandler
	if handler == nil {
		log := p.c.log
		handler = func(err *LeakError) {
			log.LogLeak(context.Background(), err)
			panic(err)
		}
	}

	rp := &ResourcePool[T]{
		p:     p,
		state: &leakState[T]{c: &p.c, handler: handler},
	}
	rp.cleanup = runtime.AddCleanup(rp, (*leakState[T]).check, rp.state)
	return rp
}

func (rp *ResourcePool[T]) accessCore() *core[T] { return &rp.p.c }

func (rp *ResourcePool[T]) mustBeOpen(op string) {
	if rp.state.closed {
		panic("genarena: " + op + " on closed resource pool")
	}
}

// Insert stores v and returns its handle. See Pool.Insert.
func (rp *ResourcePool[T]) Insert(v T) (Handle[T], error) {
	rp.mustBeOpen("Insert")
	return rp.p.Insert(v)
}

// Remove transfers ownership of the element named by h to the caller.
// Nothing the element holds is released.
func (rp *ResourcePool[T]) Remove(h Handle[T]) (T, bool) {
	return rp.p.Remove(h)
}

// TakeAll returns an iterator that removes and yields every element in
// index order. Stopping early leaves the remaining elements in the pool.
// Elements inserted while draining may land in already visited slots and
// are not yielded.
func (rp *ResourcePool[T]) TakeAll() iter.Seq[T] {
	return func(yield func(T) bool) {
		cur := rp.p.Cursor()
		for h, ok := cur.Next(); ok; h, ok = cur.Next() {
			v, ok := rp.p.Remove(h)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Drain removes every element and passes it to consume. It returns the
// number of consumed elements.
func (rp *ResourcePool[T]) Drain(consume func(T)) int {
	n := 0
	for v := range rp.TakeAll() {
		consume(v)
		n++
	}
	return n
}

// Close ends the pool's lifetime. It panics with a *LeakError if any element
// has not been removed. Closing twice is a no-op.
func (rp *ResourcePool[T]) Close() {
	if rp.state.closed {
		return
	}
	rp.p.c.mustMutate("Close")
	if live := rp.p.Len(); live > 0 {
		panic(&LeakError{ArenaID: rp.p.c.id, Live: live})
	}
	rp.state.closed = true
	rp.cleanup.Stop()
}

// Contains reports whether h names a live element.
func (rp *ResourcePool[T]) Contains(h Handle[T]) bool { return rp.p.Contains(h) }

// Check validates h and reports why it is rejected, if it is.
func (rp *ResourcePool[T]) Check(h Handle[T]) Validity { return rp.p.Check(h) }

// Len returns the number of live elements.
func (rp *ResourcePool[T]) Len() int { return rp.p.Len() }

// Capacity returns the number of slots held without reallocating.
func (rp *ResourcePool[T]) Capacity() int { return rp.p.Capacity() }

// IsBounded reports whether the pool was created with WithBound.
func (rp *ResourcePool[T]) IsBounded() bool { return rp.p.IsBounded() }

// ShrinkToFit drops trailing free slots. See Pool.ShrinkToFit.
func (rp *ResourcePool[T]) ShrinkToFit() int { return rp.p.ShrinkToFit() }

// ArenaID returns the process-unique identity embedded in issued handles.
func (rp *ResourcePool[T]) ArenaID() uint32 { return rp.p.ArenaID() }

// Handles returns an iterator over the handles of live elements.
func (rp *ResourcePool[T]) Handles() iter.Seq[Handle[T]] { return rp.p.Handles() }

// Closed reports whether Close has completed.
func (rp *ResourcePool[T]) Closed() bool { return rp.state.closed }
