package genarena

import (
	"context"
	"iter"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// FrozenView is an immutable copy of a pool's contents.
//
// The view never changes after capture, so no slot can go stale relative to
// it: lookups skip generation checks and only test bounds and the captured
// occupancy. Handles issued by the pool after the capture are not
// meaningful here. A FrozenView is safe for concurrent use by any number of
// goroutines.
type FrozenView[T any] struct {
	arena    uint32
	values   []T
	occupied *roaring.Bitmap
}

func freeze[T any](c *core[T]) *FrozenView[T] {
	start := time.Now()

	n := c.store.Len()
	fv := &FrozenView[T]{
		arena:    c.id,
		values:   make([]T, n),
		occupied: roaring.New(),
	}
	for i := 0; i < n; i++ {
		idx := uint32(i) //nolint:gosec // bounded by slot index space
		s := c.store.At(idx)
		if s.Occupied() {
			fv.values[i] = cloneValue(s.Value)
			fv.occupied.Add(idx)
		}
	}
	fv.occupied.RunOptimize()

	d := time.Since(start)
	c.opts.metricsCollector.RecordFreeze(c.store.Live(), d)
	c.log.LogFreeze(context.Background(), c.store.Live(), n, d)
	return fv
}

// Freeze captures the pool's current contents. It costs O(n).
func (p *Pool[T]) Freeze() *FrozenView[T] { return freeze(&p.c) }

// Get returns the element h named at capture time.
func (fv *FrozenView[T]) Get(h Handle[T]) (T, bool) {
	if !fv.Contains(h) {
		var zero T
		return zero, false
	}
	return fv.values[h.index], true
}

// At returns the element at h's index with only a bounds check. It returns
// the zero value for slots that were vacant at capture time and panics if
// the index is out of range.
func (fv *FrozenView[T]) At(h Handle[T]) T {
	return fv.values[h.index]
}

// Contains reports whether h's slot was occupied at capture time.
func (fv *FrozenView[T]) Contains(h Handle[T]) bool {
	return h.arena == fv.arena &&
		uint64(h.index) < uint64(len(fv.values)) &&
		fv.occupied.Contains(h.index)
}

// Len returns the number of captured elements.
func (fv *FrozenView[T]) Len() int { return int(fv.occupied.GetCardinality()) }

// Slots returns the number of slots at capture time.
func (fv *FrozenView[T]) Slots() int { return len(fv.values) }

// ArenaID returns the identity of the source pool.
func (fv *FrozenView[T]) ArenaID() uint32 { return fv.arena }

// Indices returns an iterator over the occupied slot indices.
func (fv *FrozenView[T]) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := fv.occupied.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// All returns an iterator over occupied slot indices and their elements.
func (fv *FrozenView[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		it := fv.occupied.Iterator()
		for it.HasNext() {
			i := it.Next()
			if !yield(i, fv.values[i]) {
				return
			}
		}
	}
}

// Fanout splits the captured elements into contiguous ranges and calls fn
// for each element from up to workers goroutines. If workers <= 0,
// GOMAXPROCS is used. The first error cancels the context passed to the
// remaining calls and is returned.
func (fv *FrozenView[T]) Fanout(ctx context.Context, workers int, fn func(ctx context.Context, index uint32, v T) error) error {
	idx := fv.occupied.ToArray()
	if len(idx) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(idx))
	chunk := (len(idx) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(idx); lo += chunk {
		part := idx[lo:min(lo+chunk, len(idx))]
		g.Go(func() error {
			for _, i := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(gctx, i, fv.values[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
