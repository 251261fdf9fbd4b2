package genarena

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/genarena/internal/slot"
)

// core is the state shared by Pool, SnapshotView and ResourcePool: slot
// storage, arena identity, the copy-on-write share ticket and the
// reentrancy counter.
type core[T any] struct {
	id        uint32
	store     *slot.Storage[T]
	share     *shareTicket // non-nil while store may be shared
	busy      atomic.Int32 // access closures in flight; concurrent Reads share it
	version   uint64
	slotBytes int64
	side      string
	opts      *options
	log       *Logger
}

func newCore[T any](o *options) core[T] {
	id := nextArenaID()
	return core[T]{
		id:        id,
		store:     slot.New[T](o.capacityHint, o.maxGeneration),
		slotBytes: int64(unsafe.Sizeof(slot.Slot[T]{})),
		side:      "pool",
		opts:      o,
		log:       o.logger.WithArena(id),
	}
}

// check is the diagnostic form of handle validation.
func (c *core[T]) check(h Handle[T]) Validity {
	if h.arena != c.id {
		return ForeignArena
	}
	s := c.store.Lookup(h.index)
	if s == nil {
		return OutOfBounds
	}
	if s.Generation != h.gen {
		if c.store.IsRetired(h.index) {
			return Retired
		}
		return Stale
	}
	if !s.Occupied() {
		return Vacant
	}
	return Valid
}

// lookup returns the slot named by h, or nil if h is not valid.
func (c *core[T]) lookup(h Handle[T]) *slot.Slot[T] {
	if h.arena != c.id {
		return nil
	}
	s := c.store.Lookup(h.index)
	if s == nil || s.Generation != h.gen || !s.Occupied() {
		return nil
	}
	return s
}

func (c *core[T]) miss(h Handle[T]) {
	c.opts.metricsCollector.RecordMiss(c.check(h))
}

func (c *core[T]) get(h Handle[T]) (T, bool) {
	s := c.lookup(h)
	if s == nil {
		c.miss(h)
		var zero T
		return zero, false
	}
	return s.Value, true
}

func (c *core[T]) getClone(h Handle[T]) (T, bool) {
	v, ok := c.get(h)
	if !ok {
		return v, false
	}
	return cloneValue(v), true
}

func (c *core[T]) at(h Handle[T]) T {
	s := c.lookup(h)
	if s == nil {
		panic(fmt.Sprintf("genarena: invalid handle %s (%s)", h, c.check(h)))
	}
	return s.Value
}

// mustMutate rejects mutation from inside an access closure.
func (c *core[T]) mustMutate(op string) {
	if c.busy.Load() > 0 {
		panic(fmt.Sprintf("genarena: %s called from inside an access closure", op))
	}
}

func (c *core[T]) insert(v T) (Handle[T], error) {
	charged := false
	if !c.store.HasFree() {
		if b := c.opts.bound; b != 0 && uint64(c.store.Len()) >= uint64(b) {
			return Handle[T]{}, &InsertError[T]{Kind: Full, Value: v}
		}
		if err := c.opts.budget.controller().AcquireMemory(c.slotBytes); err != nil {
			return Handle[T]{}, &InsertError[T]{Kind: Alloc, Value: v, cause: err}
		}
		charged = true
	}

	c.own()

	idx, ok := c.store.PopFree()
	if !ok {
		var err error
		idx, err = c.store.Append()
		if err != nil {
			if charged {
				c.opts.budget.controller().ReleaseMemory(c.slotBytes)
			}
			return Handle[T]{}, &InsertError[T]{Kind: Alloc, Value: v, cause: err}
		}
	}

	gen := c.store.Occupy(idx, v)
	c.version++
	return Handle[T]{arena: c.id, index: idx, gen: gen}, nil
}

func (c *core[T]) remove(h Handle[T]) (T, bool) {
	if c.lookup(h) == nil {
		c.miss(h)
		var zero T
		return zero, false
	}
	c.own()
	v := c.vacate(h.index)
	c.version++
	return v, true
}

func (c *core[T]) vacate(i uint32) T {
	v, retired := c.store.Vacate(i)
	if retired {
		c.opts.metricsCollector.RecordRetire()
		c.log.LogRetire(context.Background(), i, c.store.At(i).Generation, c.store.Retired())
	}
	return v
}

func (c *core[T]) clear() int {
	n := c.store.Live()
	if n == 0 {
		return 0
	}
	c.own()
	for i := 0; i < c.store.Len(); i++ {
		idx := uint32(i) //nolint:gosec // bounded by slot index space
		if c.store.At(idx).Occupied() {
			c.vacate(idx)
		}
	}
	c.version++
	return n
}

func (c *core[T]) shrink() int {
	// Nothing to drop or clip: a shared buffer stays shared.
	if !c.store.Truncatable() {
		return 0
	}
	c.own()
	dropped := c.store.Truncate()
	if dropped > 0 {
		c.opts.budget.controller().ReleaseMemory(int64(dropped) * c.slotBytes)
		c.version++
		c.log.LogShrink(context.Background(), dropped, c.store.Len())
	}
	return dropped
}

// own makes the storage exclusive before a write. If the storage is still
// shared with snapshots, the first writer in the share group copies it; the
// last member keeps the original. The group mutex serializes writers from
// different goroutines so that exactly one copy is made per diverging side.
func (c *core[T]) own() {
	t := c.share
	if t == nil {
		return
	}
	c.share = nil

	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if t.done {
		return
	}
	t.done = true
	if g.members > 1 {
		start := time.Now()
		c.store = c.store.Clone(cloneValue[T])
		d := time.Since(start)
		c.opts.metricsCollector.RecordDivergence(c.store.Len(), d)
		c.log.LogDivergence(context.Background(), c.side, c.store.Len(), d)
	}
	g.members--
}
