// Package conv provides safe integer type conversion utilities.
//
// Slot indices are 32 bits wide while Go lengths are int. These helpers
// perform the bounds checks at that boundary.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
