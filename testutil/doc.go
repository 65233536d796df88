// Package testutil provides testing utilities for primstore.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for reproducible key streams and a
// generator of mixed operation traces for differential tests against a
// built-in Go map.
//
// # Random Keys
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.DistinctInt64s(1000)
//	hot := rng.ZipfKeys(1000, 64, 1.5) // skewed: few keys, many hits
//
// # Operation Traces
//
//	for _, op := range rng.Ops(10000, 256) {
//		switch op.Kind {
//		case testutil.OpPut:
//			...
//		}
//	}
package testutil
