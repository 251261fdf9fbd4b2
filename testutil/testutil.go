package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// OpKind is the kind of a generated pool operation.
type OpKind int

const (
	// OpInsert inserts Op.Value.
	OpInsert OpKind = iota
	// OpRemove removes the handle selected by Op.Pick.
	OpRemove
	// OpGet looks up the handle selected by Op.Pick.
	OpGet
	// OpRemoveStale removes a handle that was already removed.
	OpRemoveStale
)

// Op is one step of a generated operation sequence.
//
// Pick selects among the handles a test currently tracks; tests reduce it
// modulo the number of candidates.
type Op struct {
	Kind  OpKind
	Value int
	Pick  int
}

// Ops generates n operations. insertPercent (0-100) is the share of inserts;
// the rest is split evenly between removes, lookups and stale removes.
// Locks only once per call.
func (r *RNG) Ops(n int, insertPercent int) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		op := Op{Value: r.rand.Int(), Pick: r.rand.Int()}
		if r.rand.Intn(100) < insertPercent {
			op.Kind = OpInsert
		} else {
			op.Kind = OpKind(1 + r.rand.Intn(3))
		}
		ops[i] = op
	}
	return ops
}
