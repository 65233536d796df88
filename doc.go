// Package primstore provides allocation-minimising storage primitives for
// fixed-width scalar data.
//
// The two engines live in their own packages:
//
//   - hashmap: an open-addressing hash table from one scalar type to another,
//     with parallel key, value and state arrays and no per-entry boxing.
//   - offheap: a manually managed memory region addressed by byte offset, for
//     very large scalar sequences kept out of the garbage collector's way.
//
// Supporting packages build on them: snapshot persists maps to a blobstore,
// resource enforces memory and IO budgets, and metrics (with promcollector)
// exports structural events.
//
// # Quick Start
//
//	m := hashmap.MustNew[int64, float64]()
//	m.Put(42, 3.14)
//	v, ok := m.Lookup(42)
//
//	err := offheap.With(1<<20, func(a *offheap.Arena) error {
//		return offheap.Store(a, 0, uint64(7))
//	})
//
// # Errors
//
// Every package reports failures through sentinel errors that work with
// errors.Is. KindOf maps any of them onto a small package-independent
// taxonomy.
//
// # Logging
//
// Components accept a *slog.Logger through their WithLogger options and are
// silent by default. NewTextLogger and NewJSONLogger build loggers for them.
package primstore
