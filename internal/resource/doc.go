// Package resource implements the memory budget charged by pool growth.
//
// A Controller tracks bytes reserved for slot storage and optionally
// enforces a hard limit. Several pools may share one Controller.
//
//	┌──────────────────────────────────────────┐
//	│               Controller                 │
//	├──────────────────────┬───────────────────┤
//	│  Memory Limit        │  Usage / Peak     │
//	│  (weighted sem,      │  (atomic          │
//	│   fail-fast)         │   counters)       │
//	└──────────────────────┴───────────────────┘
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded when the
// reservation does not fit:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(slotBytes); err != nil {
//	    // ErrMemoryLimitExceeded - the pool reports an Alloc insert error
//	}
//	defer rc.ReleaseMemory(slotBytes)
//
// A nil *Controller is valid and imposes no limit.
package resource
