// Package conv provides checked integer conversions.
//
// Arena capacities are int64 while Go slices are indexed by int, and snapshot
// headers carry fixed-width lengths read from untrusted input. Every crossing
// between those worlds goes through a function here and fails with
// ErrOverflow instead of silently wrapping.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead.
package conv
