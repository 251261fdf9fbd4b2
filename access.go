package genarena

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Accessor is implemented by *Pool, *SnapshotView and *ResourcePool.
// It is the receiver for Read, Modify and ModifyMany.
type Accessor[T any] interface {
	accessCore() *core[T]
}

// smallDistinctCheck is the handle count up to which ModifyMany compares
// handles pairwise instead of indexing them in a bitmap.
const smallDistinctCheck = 16

// Read validates h and calls fn with a copy of the element.
//
// While fn runs, structural operations on a are forbidden and panic when
// attempted (Insert, Remove, Clear, ShrinkToFit, Modify, ModifyMany).
// Nested Read and Get calls are fine.
func Read[T, R any](a Accessor[T], h Handle[T], fn func(T) R) (R, bool) {
	c := a.accessCore()
	s := c.lookup(h)
	if s == nil {
		c.miss(h)
		var zero R
		return zero, false
	}

	c.busy.Add(1)
	defer c.busy.Add(-1)
	return fn(s.Value), true
}

// Modify validates h and calls fn with exclusive access to that element
// only. The pointer is valid for the duration of fn and must not be
// retained.
//
// The same reentrancy rules as Read apply.
func Modify[T, R any](a Accessor[T], h Handle[T], fn func(*T) R) (R, bool) {
	c := a.accessCore()
	c.mustMutate("Modify")
	if c.lookup(h) == nil {
		c.miss(h)
		var zero R
		return zero, false
	}

	c.own()
	s := c.store.At(h.index)

	c.busy.Add(1)
	defer c.busy.Add(-1)
	r := fn(&s.Value)
	c.version++
	return r, true
}

// ModifyMany grants fn simultaneous exclusive access to every element named
// by hs, in order.
//
// Passing the same handle twice is a programming error and panics before
// anything else is checked. If any handle is invalid, fn is not called and
// ModifyMany returns false. fn works on staged copies which are written back
// together once fn returns; if fn panics nothing is committed.
func ModifyMany[T, R any](a Accessor[T], hs []Handle[T], fn func([]*T) R) (R, bool) {
	c := a.accessCore()
	c.mustMutate("ModifyMany")
	mustBeDistinct(hs)

	for _, h := range hs {
		if c.lookup(h) == nil {
			c.miss(h)
			var zero R
			return zero, false
		}
	}

	if len(hs) > 0 {
		c.own()
	}

	staged := make([]T, len(hs))
	ptrs := make([]*T, len(hs))
	for i, h := range hs {
		staged[i] = c.store.At(h.index).Value
		ptrs[i] = &staged[i]
	}

	r := func() R {
		c.busy.Add(1)
		defer c.busy.Add(-1)
		return fn(ptrs)
	}()

	for i, h := range hs {
		c.store.At(h.index).Value = staged[i]
	}
	if len(hs) > 0 {
		c.version++
	}
	return r, true
}

func mustBeDistinct[T any](hs []Handle[T]) {
	if len(hs) <= smallDistinctCheck {
		for i := 1; i < len(hs); i++ {
			for j := 0; j < i; j++ {
				if hs[i] == hs[j] {
					panicDuplicate(hs[i])
				}
			}
		}
		return
	}

	// Distinct handles almost never share an index, so only index
	// collisions need the full comparison.
	seen := roaring.New()
	for i, h := range hs {
		if seen.CheckedAdd(h.index) {
			continue
		}
		for j := 0; j < i; j++ {
			if hs[j] == h {
				panicDuplicate(h)
			}
		}
	}
}

func panicDuplicate[T any](h Handle[T]) {
	panic(fmt.Sprintf("genarena: duplicate handle %s passed to ModifyMany", h))
}
