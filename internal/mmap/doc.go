// Package mmap provides memory mappings outside the Go heap.
//
// Two kinds of mapping share one type:
//
//   - MapAnon returns a zeroed read-write anonymous region. The offheap
//     allocator obtains arena regions this way, so their bytes are invisible
//     to the garbage collector.
//   - Open maps a file read-only for zero-copy blob reads.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//	buf := m.Bytes()
//
// # Platform Support
//
//   - Unix: mmap(2) and madvise(2)
//   - Windows: VirtualAlloc for anonymous memory, CreateFileMapping and
//     MapViewOfFile for files (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and may race with itself, but callers must ensure that
// no goroutine touches Bytes() after Close returns.
package mmap
