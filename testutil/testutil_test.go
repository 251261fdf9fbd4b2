package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.Ops(64, 50), b.Ops(64, 50))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Reset(t *testing.T) {
	r := NewRNG(42)
	first := r.Ops(32, 50)
	r.Reset()
	assert.Equal(t, first, r.Ops(32, 50))
}

func TestOps_InsertShare(t *testing.T) {
	r := NewRNG(1)

	assert.Len(t, r.Ops(10, 50), 10)

	for _, op := range r.Ops(100, 100) {
		assert.Equal(t, OpInsert, op.Kind)
	}
	for _, op := range r.Ops(100, 0) {
		assert.NotEqual(t, OpInsert, op.Kind)
		assert.LessOrEqual(t, op.Kind, OpRemoveStale)
	}
}
