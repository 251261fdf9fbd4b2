package slot

import (
	"errors"
	"math"

	"github.com/hupe1980/genarena/internal/conv"
)

const (
	// NoFree terminates the free list.
	NoFree = math.MaxUint32

	// MaxGeneration is the default generation ceiling.
	MaxGeneration = math.MaxUint64
)

// ErrIndexSpaceExhausted is returned by Append when no further index can be addressed.
var ErrIndexSpaceExhausted = errors.New("slot: index space exhausted")

// Slot is one storage unit.
type Slot[T any] struct {
	Value      T
	Generation uint64
	next       uint32
	occupied   bool
}

// Occupied reports whether the slot holds a value.
func (s *Slot[T]) Occupied() bool {
	return s.occupied
}

// Storage is a growable slot array with a LIFO free list.
type Storage[T any] struct {
	slots    []Slot[T]
	freeHead uint32
	live     int
	retired  int
	maxGen   uint64
	// genFloor is the first generation given to appended slots. Truncate
	// raises it so indices that are dropped and later re-appended never
	// revalidate a handle issued before the drop.
	genFloor uint64
}

// New creates an empty Storage. capHint pre-sizes the backing array and
// maxGen sets the saturation ceiling (0 selects MaxGeneration).
func New[T any](capHint int, maxGen uint64) *Storage[T] {
	if capHint < 0 {
		capHint = 0
	}
	if maxGen == 0 {
		maxGen = MaxGeneration
	}
	return &Storage[T]{
		slots:    make([]Slot[T], 0, capHint),
		freeHead: NoFree,
		maxGen:   maxGen,
	}
}

// Len returns the number of slots, occupied or not.
func (s *Storage[T]) Len() int { return len(s.slots) }

// Cap returns the number of slots the backing array holds without growing.
func (s *Storage[T]) Cap() int { return cap(s.slots) }

// Live returns the number of occupied slots.
func (s *Storage[T]) Live() int { return s.live }

// Retired returns the number of permanently retired slots.
func (s *Storage[T]) Retired() int { return s.retired }

// MaxGeneration returns the saturation ceiling.
func (s *Storage[T]) MaxGeneration() uint64 { return s.maxGen }

// HasFree reports whether the free list is non-empty.
func (s *Storage[T]) HasFree() bool { return s.freeHead != NoFree }

// At returns the slot at index i. The caller bounds-checks i.
func (s *Storage[T]) At(i uint32) *Slot[T] {
	return &s.slots[i]
}

// Lookup returns the slot at index i, or nil when i is out of bounds.
func (s *Storage[T]) Lookup(i uint32) *Slot[T] {
	if uint64(i) >= uint64(len(s.slots)) {
		return nil
	}
	return &s.slots[i]
}

// IsRetired reports whether the slot at index i has saturated.
func (s *Storage[T]) IsRetired(i uint32) bool {
	sl := s.Lookup(i)
	return sl != nil && !sl.occupied && sl.Generation == s.maxGen
}

// PopFree takes the most recently freed index off the free list.
func (s *Storage[T]) PopFree() (uint32, bool) {
	if s.freeHead == NoFree {
		return 0, false
	}
	i := s.freeHead
	s.freeHead = s.slots[i].next
	s.slots[i].next = NoFree
	return i, true
}

// Append adds a fresh free slot at the end and returns its index. The slot
// is not linked into the free list; the caller occupies it next.
func (s *Storage[T]) Append() (uint32, error) {
	i, err := conv.IntToUint32(len(s.slots))
	if err != nil || i == NoFree {
		return 0, ErrIndexSpaceExhausted
	}
	s.slots = append(s.slots, Slot[T]{Generation: s.genFloor, next: NoFree})
	return i, nil
}

// Occupy stores v in the free slot at index i and returns the slot's generation.
func (s *Storage[T]) Occupy(i uint32, v T) uint64 {
	sl := &s.slots[i]
	if sl.occupied {
		panic("slot: occupy of occupied slot")
	}
	sl.Value = v
	sl.occupied = true
	s.live++
	return sl.Generation
}

// Vacate removes and returns the value in the occupied slot at index i and
// advances the slot's generation. It reports retired=true when the advance
// saturated the counter; retired slots never rejoin the free list.
func (s *Storage[T]) Vacate(i uint32) (v T, retired bool) {
	sl := &s.slots[i]
	if !sl.occupied {
		panic("slot: vacate of free slot")
	}
	var zero T
	v = sl.Value
	sl.Value = zero
	sl.occupied = false
	s.live--

	if sl.Generation < s.maxGen {
		sl.Generation++
	}
	if sl.Generation == s.maxGen {
		s.retired++
		sl.next = NoFree
		return v, true
	}
	sl.next = s.freeHead
	s.freeHead = i
	return v, false
}

// Clone returns an independent copy. cloneFn, when non-nil, copies each
// occupied value; otherwise values are copied by assignment.
func (s *Storage[T]) Clone(cloneFn func(T) T) *Storage[T] {
	slots := make([]Slot[T], len(s.slots), cap(s.slots))
	copy(slots, s.slots)
	if cloneFn != nil {
		for i := range slots {
			if slots[i].occupied {
				slots[i].Value = cloneFn(slots[i].Value)
			}
		}
	}
	return &Storage[T]{
		slots:    slots,
		freeHead: s.freeHead,
		live:     s.live,
		retired:  s.retired,
		maxGen:   s.maxGen,
		genFloor: s.genFloor,
	}
}

// Truncatable reports whether Truncate would drop a slot or release
// backing capacity.
func (s *Storage[T]) Truncatable() bool {
	if cap(s.slots) > len(s.slots) {
		return true
	}
	if n := len(s.slots); n > 0 {
		last := &s.slots[n-1]
		return !last.occupied && last.Generation != s.maxGen
	}
	return false
}

// Truncate drops trailing free slots, rebuilds the free list and releases
// excess backing capacity. Retired slots stop the scan: their saturated
// generations must stay in place. It returns the number of dropped slots.
func (s *Storage[T]) Truncate() int {
	n := len(s.slots)
	for n > 0 {
		sl := &s.slots[n-1]
		if sl.occupied || sl.Generation == s.maxGen {
			break
		}
		if sl.Generation > s.genFloor {
			s.genFloor = sl.Generation
		}
		n--
	}
	dropped := len(s.slots) - n
	if dropped == 0 && cap(s.slots) == len(s.slots) {
		return 0
	}

	slots := make([]Slot[T], n)
	copy(slots, s.slots[:n])

	// Keep the surviving free entries in their LIFO order.
	head := uint32(NoFree)
	var tail uint32 = NoFree
	for i := s.freeHead; i != NoFree; i = s.slots[i].next {
		if uint64(i) >= uint64(n) {
			continue
		}
		slots[i].next = NoFree
		if head == NoFree {
			head = i
		} else {
			slots[tail].next = i
		}
		tail = i
	}

	s.slots = slots
	s.freeHead = head
	return dropped
}

// Reserve grows the backing array so that n more slots fit without reallocation.
func (s *Storage[T]) Reserve(n int) {
	if n <= 0 || cap(s.slots)-len(s.slots) >= n {
		return
	}
	slots := make([]Slot[T], len(s.slots), len(s.slots)+n)
	copy(slots, s.slots)
	s.slots = slots
}
