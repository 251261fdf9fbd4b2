package genarena

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_RawRoundTrip(t *testing.T) {
	p := New[string]()
	h, err := p.Insert("ffi")
	require.NoError(t, err)

	a, i, g := h.Raw()
	assert.Equal(t, p.ArenaID(), a)

	back := HandleFromRaw[string](a, i, g)
	assert.Equal(t, h, back)
	assert.Equal(t, "ffi", p.At(back))
}

func TestHandle_Basics(t *testing.T) {
	var zero Handle[int]
	assert.True(t, zero.IsZero())
	assert.Equal(t, "Handle(0:0@0)", zero.String())

	h := HandleFromRaw[int](3, 7, 11)
	assert.False(t, h.IsZero())
	assert.Equal(t, uint32(3), h.ArenaID())
	assert.Equal(t, uint32(7), h.Index())
	assert.Equal(t, uint64(11), h.Generation())
	assert.Equal(t, "Handle(3:7@11)", h.String())

	assert.Equal(t, uintptr(16), unsafe.Sizeof(h))
}

func TestHandle_UsableAsMapKey(t *testing.T) {
	p := New[int]()
	a, _ := p.Insert(1)
	b, _ := p.Insert(2)

	m := map[Handle[int]]string{a: "a", b: "b"}
	assert.Equal(t, "a", m[a])
	assert.Equal(t, "b", m[b])
}

func TestNextArenaID_Unique(t *testing.T) {
	const goroutines, perG = 8, 500

	ids := make(chan uint32, goroutines*perG)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				ids <- New[int]().ArenaID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint32]struct{}, goroutines*perG)
	for id := range ids {
		require.NotZero(t, id)
		_, dup := seen[id]
		require.False(t, dup, "arena id %d issued twice", id)
		seen[id] = struct{}{}
	}
}

func TestNextArenaID_Exhaustion(t *testing.T) {
	saved := lastArenaID.Load()
	t.Cleanup(func() { lastArenaID.Store(saved) })

	lastArenaID.Store(^uint32(0))
	assert.PanicsWithValue(t, "genarena: arena identity space exhausted", func() {
		nextArenaID()
	})
}
