// Package slot implements the slot array behind a generational pool.
//
// Every slot is either free (linked into an intrusive LIFO free list) or
// occupied (holding exactly one value). Each slot carries a generation
// counter that advances when its occupant is removed. Counters saturate at a
// configurable ceiling; a slot whose counter reaches the ceiling is retired
// and never handed out again.
//
// # Layout
//
//	┌────────────┬────────────┬────────────┬─────
//	│ slot 0     │ slot 1     │ slot 2     │ ...
//	│ gen=3 occ  │ gen=1 free │ gen=0 occ  │
//	│ value      │ next=NoFree│ value      │
//	└────────────┴────────────┴────────────┴─────
//	freeHead ──► 1
//
// Storage is not safe for concurrent mutation. Concurrent readers are safe
// as long as no writer is active.
package slot
