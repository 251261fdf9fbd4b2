package genarena

import (
	"iter"

	"github.com/hupe1980/genarena/internal/conv"
)

// Cursor walks the live elements of a pool by handle, in index order.
//
// Occupancy is re-checked at every step, so removing the current element or
// any other element while iterating is safe: removed elements that have not
// been reached yet are skipped. The end of iteration is fixed when the cursor
// is created; slots appended afterwards are never visited.
type Cursor[T any] struct {
	c    *core[T]
	next uint32
	end  uint32
}

func newCursor[T any](c *core[T]) *Cursor[T] {
	end, err := conv.IntToUint32(c.store.Len())
	if err != nil {
		end = ^uint32(0)
	}
	return &Cursor[T]{c: c, end: end}
}

// Next returns the handle of the next live element.
func (cur *Cursor[T]) Next() (Handle[T], bool) {
	for cur.next < cur.end {
		i := cur.next
		cur.next++
		// Lookup also guards against the storage having shrunk.
		if s := cur.c.store.Lookup(i); s != nil && s.Occupied() {
			return Handle[T]{arena: cur.c.id, index: i, gen: s.Generation}, true
		}
	}
	return Handle[T]{}, false
}

// Cursor returns a cursor over the current slots.
func (p *Pool[T]) Cursor() *Cursor[T] { return newCursor(&p.c) }

// Handles returns an iterator over the handles of live elements.
// The pool may be mutated while iterating; see Cursor.
func (p *Pool[T]) Handles() iter.Seq[Handle[T]] { return handles(&p.c) }

// All returns an iterator over live elements and their handles. Each value
// is read when it is reached.
func (p *Pool[T]) All() iter.Seq2[Handle[T], T] { return all(&p.c) }

func handles[T any](c *core[T]) iter.Seq[Handle[T]] {
	return func(yield func(Handle[T]) bool) {
		cur := newCursor(c)
		for h, ok := cur.Next(); ok; h, ok = cur.Next() {
			if !yield(h) {
				return
			}
		}
	}
}

func all[T any](c *core[T]) iter.Seq2[Handle[T], T] {
	return func(yield func(Handle[T], T) bool) {
		cur := newCursor(c)
		for h, ok := cur.Next(); ok; h, ok = cur.Next() {
			if !yield(h, c.store.At(h.index).Value) {
				return
			}
		}
	}
}
