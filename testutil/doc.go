// Package testutil provides testing utilities for genarena.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Operation Sequences
//
//	rng := testutil.NewRNG(seed)
//	for _, op := range rng.Ops(10_000, 60) {
//	    switch op.Kind {
//	    case testutil.OpInsert:
//	        // ...
//	    }
//	}
package testutil
