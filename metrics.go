package genarena

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors are called synchronously on the pool's hot paths and must be cheap.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    inserts    prometheus.Counter
//	    divergence prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInsert(err error) {
//	    p.inserts.Inc()
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert. err is nil if successful.
	RecordInsert(err error)

	// RecordRemove is called after each remove. found reports whether the
	// handle was valid.
	RecordRemove(found bool)

	// RecordMiss is called when a lookup is rejected by handle validation.
	RecordMiss(v Validity)

	// RecordRetire is called when a slot's generation saturates.
	RecordRetire()

	// RecordFreeze is called after a frozen view is captured.
	RecordFreeze(elements int, duration time.Duration)

	// RecordDivergence is called after a copy-on-write duplication.
	RecordDivergence(slots int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(error)                  {}
func (NoopMetricsCollector) RecordRemove(bool)                   {}
func (NoopMetricsCollector) RecordMiss(Validity)                 {}
func (NoopMetricsCollector) RecordRetire()                       {}
func (NoopMetricsCollector) RecordFreeze(int, time.Duration)     {}
func (NoopMetricsCollector) RecordDivergence(int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount          atomic.Int64
	InsertFull           atomic.Int64
	InsertAlloc          atomic.Int64
	RemoveCount          atomic.Int64
	RemoveMisses         atomic.Int64
	StaleLookups         atomic.Int64
	ForeignLookups       atomic.Int64
	OtherMisses          atomic.Int64
	RetiredSlots         atomic.Int64
	FreezeCount          atomic.Int64
	FreezeElements       atomic.Int64
	FreezeTotalNanos     atomic.Int64
	DivergenceCount      atomic.Int64
	DivergenceSlots      atomic.Int64
	DivergenceTotalNanos atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(err error) {
	switch {
	case err == nil:
		b.InsertCount.Add(1)
	case errors.Is(err, ErrFull):
		b.InsertFull.Add(1)
	default:
		b.InsertAlloc.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(found bool) {
	if found {
		b.RemoveCount.Add(1)
		return
	}
	b.RemoveMisses.Add(1)
}

// RecordMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMiss(v Validity) {
	switch v {
	case Stale, Retired:
		b.StaleLookups.Add(1)
	case ForeignArena:
		b.ForeignLookups.Add(1)
	default:
		b.OtherMisses.Add(1)
	}
}

// RecordRetire implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetire() {
	b.RetiredSlots.Add(1)
}

// RecordFreeze implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFreeze(elements int, duration time.Duration) {
	b.FreezeCount.Add(1)
	b.FreezeElements.Add(int64(elements))
	b.FreezeTotalNanos.Add(duration.Nanoseconds())
}

// RecordDivergence implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDivergence(slots int, duration time.Duration) {
	b.DivergenceCount.Add(1)
	b.DivergenceSlots.Add(int64(slots))
	b.DivergenceTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:        b.InsertCount.Load(),
		InsertFull:         b.InsertFull.Load(),
		InsertAlloc:        b.InsertAlloc.Load(),
		RemoveCount:        b.RemoveCount.Load(),
		RemoveMisses:       b.RemoveMisses.Load(),
		StaleLookups:       b.StaleLookups.Load(),
		ForeignLookups:     b.ForeignLookups.Load(),
		OtherMisses:        b.OtherMisses.Load(),
		RetiredSlots:       b.RetiredSlots.Load(),
		FreezeCount:        b.FreezeCount.Load(),
		FreezeAvgNanos:     avg(b.FreezeTotalNanos.Load(), b.FreezeCount.Load()),
		DivergenceCount:    b.DivergenceCount.Load(),
		DivergenceSlots:    b.DivergenceSlots.Load(),
		DivergenceAvgNanos: avg(b.DivergenceTotalNanos.Load(), b.DivergenceCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount        int64
	InsertFull         int64
	InsertAlloc        int64
	RemoveCount        int64
	RemoveMisses       int64
	StaleLookups       int64
	ForeignLookups     int64
	OtherMisses        int64
	RetiredSlots       int64
	FreezeCount        int64
	FreezeAvgNanos     int64
	DivergenceCount    int64
	DivergenceSlots    int64
	DivergenceAvgNanos int64
}
