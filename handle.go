package genarena

import (
	"fmt"
	"sync/atomic"
)

// Handle is a small, copyable reference into a Pool.
//
// A handle carries no ownership. It names a slot by arena identity, index and
// generation, and is only honored by the pool that issued it while the slot
// still holds the element it was issued for. The zero Handle is never valid.
type Handle[T any] struct {
	arena uint32
	index uint32
	gen   uint64
}

// ArenaID returns the identity of the issuing pool.
func (h Handle[T]) ArenaID() uint32 { return h.arena }

// Index returns the slot index.
func (h Handle[T]) Index() uint32 { return h.index }

// Generation returns the slot generation the handle was issued for.
func (h Handle[T]) Generation() uint64 { return h.gen }

// IsZero reports whether h is the zero Handle.
func (h Handle[T]) IsZero() bool { return h == Handle[T]{} }

// Raw decomposes h into its fixed-width parts for crossing into foreign code.
func (h Handle[T]) Raw() (arenaID uint32, index uint32, generation uint64) {
	return h.arena, h.index, h.gen
}

// HandleFromRaw rebuilds a handle previously decomposed with Raw.
//
// Only tuples obtained from a genuinely issued handle are meaningful;
// fabricated values simply fail validation.
func HandleFromRaw[T any](arenaID uint32, index uint32, generation uint64) Handle[T] {
	return Handle[T]{arena: arenaID, index: index, gen: generation}
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle(%d:%d@%d)", h.arena, h.index, h.gen)
}

// lastArenaID is the process-wide arena identity counter. 0 is never issued.
var lastArenaID atomic.Uint32

// nextArenaID hands out a fresh arena identity. Running out of identities
// would let handles from different pools collide, so exhaustion is fatal.
func nextArenaID() uint32 {
	for {
		cur := lastArenaID.Load()
		if cur == ^uint32(0) {
			panic("genarena: arena identity space exhausted")
		}
		if lastArenaID.CompareAndSwap(cur, cur+1) {
			return cur + 1
		}
	}
}
