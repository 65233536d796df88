// Package offheap provides manually managed memory regions for large scalar
// sequences.
//
// An Arena is a contiguous block of bytes addressed by offset. With the
// default MmapAllocator the bytes live in an anonymous mapping, so even a
// multi-gigabyte arena adds nothing to the garbage collector's mark work.
//
// # Lifetime
//
// Arenas are released deterministically:
//
//	err := offheap.With(1<<20, func(a *offheap.Arena) error {
//		return offheap.Store(a, 0, int64(42))
//	})
//
// or with defer a.Close(). A runtime cleanup frees the region of an arena
// that becomes unreachable without being freed, and logs a warning; treat
// that warning as a bug.
//
// # Resizing
//
// Resize never reallocates in place. It copies into a fresh region and then
// publishes it with a compare-and-swap on the arena's address cell, so a Free
// that slips in between is detected and reported as ErrResizeRace instead of
// freeing a region twice. Detection is not synchronization: an Arena is still
// owned by one goroutine.
//
// # Bounds
//
// Every accessor checks its range and fails with ErrOutOfRange rather than
// truncating. Slices returned by Bytes alias the region and are invalidated
// by Resize and Free.
package offheap
