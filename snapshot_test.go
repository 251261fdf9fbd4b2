package genarena

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_IsolatedFromPoolMutation(t *testing.T) {
	p := New[int]()
	h, _ := p.Insert(1)

	snap, ver := p.Snapshot()
	assert.Equal(t, p.Version(), ver)
	assert.Equal(t, ver, snap.Version())
	assert.False(t, snap.Diverged())

	_, err := p.Insert(99)
	require.NoError(t, err)
	p.Remove(h)

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 1, snap.At(h))
	assert.Equal(t, 1, p.Len())
	assert.True(t, snap.Diverged())
	assert.Equal(t, ver, snap.Version())
}

func TestSnapshot_ModifyNotVisibleToPool(t *testing.T) {
	p := New[int]()
	h, _ := p.Insert(1)
	snap, _ := p.Snapshot()

	_, ok := Modify(snap, h, func(v *int) int { *v = 50; return 0 })
	require.True(t, ok)

	assert.Equal(t, 50, snap.At(h))
	assert.Equal(t, 1, p.At(h))
	assert.Greater(t, snap.Version(), p.Version())

	_, ok = ModifyMany(snap, []Handle[int]{h}, func(ps []*int) int { *ps[0]++; return 0 })
	require.True(t, ok)
	assert.Equal(t, 51, snap.At(h))
	assert.Equal(t, 1, p.At(h))
}

func TestSnapshot_HandlesStayValid(t *testing.T) {
	p := New[string]()
	hs := insertAll(t, p, "a", "b", "c")
	p.Remove(hs[1])
	snap, _ := p.Snapshot()

	assert.Equal(t, Valid, snap.Check(hs[0]))
	assert.Equal(t, Stale, snap.Check(hs[1]))
	assert.Equal(t, p.ArenaID(), snap.ArenaID())
	assert.Equal(t, 3, snap.Slots())

	var got []string
	for _, v := range snap.All() {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "c"}, got)

	p.Remove(hs[0])
	assert.True(t, snap.Contains(hs[0]))
	assert.False(t, p.Contains(hs[0]))

	fv := snap.Freeze()
	assert.Equal(t, 2, fv.Len())
}

func TestSnapshot_SingleCopyPerSide(t *testing.T) {
	m := &BasicMetricsCollector{}
	p := New[int](WithMetricsCollector(m))
	h, _ := p.Insert(1)
	snap, _ := p.Snapshot()

	for i := 0; i < 10; i++ {
		Modify(p, h, func(v *int) int { *v++; return 0 })
		Modify(snap, h, func(v *int) int { *v--; return 0 })
	}

	assert.Equal(t, int64(1), m.GetStats().DivergenceCount, "only the first writer copies")
	assert.Equal(t, 11, p.At(h))
	assert.Equal(t, -9, snap.At(h))
}

func TestSnapshot_ConcurrentDivergence(t *testing.T) {
	for round := 0; round < 20; round++ {
		m := &BasicMetricsCollector{}
		p := New[int](WithMetricsCollector(m))
		h, _ := p.Insert(0)
		snap, _ := p.Snapshot()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Modify(p, h, func(v *int) int { *v++; return 0 })
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Modify(snap, h, func(v *int) int { *v--; return 0 })
			}
		}()
		wg.Wait()

		require.Equal(t, int64(1), m.GetStats().DivergenceCount)
		require.Equal(t, 100, p.At(h))
		require.Equal(t, -100, snap.At(h))
	}
}

func TestSnapshot_ConcurrentReadersWhilePoolMutates(t *testing.T) {
	p := New[int]()
	hs := insertAll(t, p, 1, 2, 3, 4, 5)
	snap, _ := p.Snapshot()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				sum := 0
				for _, v := range snap.All() {
					sum += v
				}
				if sum != 15 {
					t.Errorf("snapshot sum = %d", sum)
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		h, _ := p.Insert(i)
		p.Remove(h)
	}
	p.Remove(hs[0])
	wg.Wait()
}

func TestSnapshot_MultipleViews(t *testing.T) {
	m := &BasicMetricsCollector{}
	p := New[int](WithMetricsCollector(m))
	h, _ := p.Insert(1)

	s1, _ := p.Snapshot()
	s2, _ := p.Snapshot()

	Modify(p, h, func(v *int) int { *v = 2; return 0 })
	assert.Equal(t, int64(1), m.GetStats().DivergenceCount)
	assert.False(t, s1.Diverged(), "s1 and s2 still share the original")

	Modify(s1, h, func(v *int) int { *v = 3; return 0 })
	assert.Equal(t, int64(2), m.GetStats().DivergenceCount)
	assert.True(t, s2.Diverged())

	// s2 is the last member and keeps the original without copying.
	Modify(s2, h, func(v *int) int { *v = 4; return 0 })
	assert.Equal(t, int64(2), m.GetStats().DivergenceCount)

	assert.Equal(t, 2, p.At(h))
	assert.Equal(t, 3, s1.At(h))
	assert.Equal(t, 4, s2.At(h))
}

func TestSnapshot_Release(t *testing.T) {
	m := &BasicMetricsCollector{}
	p := New[int](WithMetricsCollector(m))
	h, _ := p.Insert(1)

	snap, _ := p.Snapshot()
	snap.Release()

	assert.True(t, snap.Diverged())
	assert.Equal(t, 0, snap.Len())
	assert.False(t, snap.Contains(h))

	Modify(p, h, func(v *int) int { *v = 2; return 0 })
	assert.Equal(t, int64(0), m.GetStats().DivergenceCount, "released view must not force a copy")
	assert.Equal(t, 2, p.At(h))
}

func TestSnapshot_GetClone(t *testing.T) {
	p := New[node]()
	child, _ := p.Insert(node{Name: "child"})
	root, _ := p.Insert(node{Name: "root", Children: []Handle[node]{child}})
	snap, _ := p.Snapshot()

	// The pool's copy on divergence goes through Clone, so the snapshot's
	// slice is not shared with the pool.
	Modify(p, root, func(n *node) int { n.Children[0] = Handle[node]{}; return 0 })
	assert.Equal(t, child, snap.At(root).Children[0])

	c, ok := snap.GetClone(root)
	require.True(t, ok)
	c.Children[0] = Handle[node]{}
	assert.Equal(t, child, snap.At(root).Children[0])
}

func TestSnapshot_NoOpMaintenanceKeepsSharing(t *testing.T) {
	m := &BasicMetricsCollector{}
	p := New[int](WithMetricsCollector(m))
	insertAll(t, p, 1, 2, 3, 4)
	p.ShrinkToFit()

	snap, _ := p.Snapshot()
	assert.Equal(t, 0, p.ShrinkToFit())
	p.Reserve(0)
	p.Reserve(-3)
	assert.False(t, snap.Diverged())
	assert.Equal(t, int64(0), m.GetStats().DivergenceCount)

	assert.Equal(t, 0, snap.c.store.Cap()-snap.c.store.Len())
	p.Reserve(8)
	assert.True(t, snap.Diverged(), "growing capacity is a real change")
	assert.Equal(t, int64(1), m.GetStats().DivergenceCount)

	snap2, _ := p.Snapshot()
	p.Reserve(4)
	assert.False(t, snap2.Diverged(), "capacity already fits")
	runtime.KeepAlive(snap)
}
