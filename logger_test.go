package genarena

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLogs(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}

func TestLogger_PoolEvents(t *testing.T) {
	var buf bytes.Buffer
	p := New[int](WithLogger(bufferLogger(&buf)))

	hs := insertAll(t, p, 1, 2, 3)
	p.Freeze()
	snap, _ := p.Snapshot()
	p.Remove(hs[2])
	p.ShrinkToFit()
	runtime.KeepAlive(snap)

	var msgs []string
	for _, rec := range decodeLogs(t, &buf) {
		assert.EqualValues(t, p.ArenaID(), rec["arena"])
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{"frozen view captured", "snapshot diverged", "storage shrunk"}, msgs)
}

func TestLogger_Leak(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf).WithArena(7)
	l.LogLeak(t.Context(), &LeakError{ArenaID: 7, Live: 2})

	recs := decodeLogs(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "ERROR", recs[0]["level"])
	assert.EqualValues(t, 2, recs[0]["live"])
}

func TestNoopLogger(t *testing.T) {
	p := New[int](WithLogger(nil))
	h, _ := p.Insert(1)
	assert.NotPanics(t, func() {
		p.Remove(h)
		p.ShrinkToFit()
	})
}
