package genarena

import (
	"github.com/hupe1980/genarena/internal/conv"
	"github.com/hupe1980/genarena/internal/resource"
)

type options struct {
	capacityHint     int
	bound            uint32 // 0 = unbounded
	maxGeneration    uint64 // 0 = slot.MaxGeneration
	budget           *MemoryBudget
	logger           *Logger
	metricsCollector MetricsCollector
	leakHandler      LeakHandler
}

// Option configures a Pool or ResourcePool.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// WithCapacityHint pre-sizes slot storage for n elements.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacityHint = n
		}
	}
}

// WithBound caps the number of slots. Inserts beyond the bound fail with a
// Full InsertError instead of growing the pool.
//
// Retired slots keep counting against the bound.
// If n <= 0, the pool is unbounded.
func WithBound(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.bound = 0
			return
		}
		b, err := conv.IntToUint32(n)
		if err != nil {
			b = ^uint32(0)
		}
		o.bound = b
	}
}

// WithMaxGeneration lowers the generation ceiling at which a slot retires.
//
// The default ceiling is math.MaxUint64. Lower ceilings trade slot lifetime
// for narrower generations, e.g. when handles are packed for foreign code.
// If g is 0, the default is used.
func WithMaxGeneration(g uint64) Option {
	return func(o *options) {
		o.maxGeneration = g
	}
}

// WithMemoryBudget charges slot growth against b. Growth that does not fit
// fails with an Alloc InsertError. Several pools may share one budget.
func WithMemoryBudget(b *MemoryBudget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithMemoryLimit is shorthand for WithMemoryBudget(NewMemoryBudget(bytes)).
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.budget = NewMemoryBudget(bytes)
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed,
// NoopMetricsCollector is used.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metricsCollector = m
	}
}

// WithLeakHandler sets the function invoked when a non-empty ResourcePool is
// garbage collected without being drained. Ignored by Pool.
func WithLeakHandler(h LeakHandler) Option {
	return func(o *options) {
		o.leakHandler = h
	}
}

// MemoryBudget is a byte budget for slot storage, shareable across pools.
type MemoryBudget struct {
	rc *resource.Controller
}

// NewMemoryBudget creates a budget with the given hard limit.
// If limitBytes <= 0, usage is tracked but not limited.
func NewMemoryBudget(limitBytes int64) *MemoryBudget {
	if limitBytes < 0 {
		limitBytes = 0
	}
	return &MemoryBudget{
		rc: resource.NewController(resource.Config{MemoryLimitBytes: limitBytes}),
	}
}

// Usage returns the bytes currently charged.
func (b *MemoryBudget) Usage() int64 { return b.controller().MemoryUsage() }

// Peak returns the highest charge observed.
func (b *MemoryBudget) Peak() int64 { return b.controller().PeakMemoryUsage() }

// Limit returns the hard limit (0 if unlimited).
func (b *MemoryBudget) Limit() int64 { return b.controller().MemoryLimit() }

func (b *MemoryBudget) controller() *resource.Controller {
	if b == nil {
		return nil
	}
	return b.rc
}
