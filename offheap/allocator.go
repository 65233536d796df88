package offheap

import (
	"github.com/hupe1980/primstore/internal/mmap"
)

// Block is a region handed out by an Allocator.
type Block interface {
	// Bytes returns the region. Its length is the requested size.
	Bytes() []byte
	// Close returns the region to its source.
	Close() error
}

// Allocator provides zeroed regions for arenas.
type Allocator interface {
	// Allocate returns a block of exactly size zeroed bytes.
	Allocate(size int) (Block, error)
}

// MmapAllocator maps anonymous memory. Its regions are not scanned or moved
// by the garbage collector and go back to the OS on Close.
type MmapAllocator struct{}

// Allocate implements Allocator.
func (MmapAllocator) Allocate(size int) (Block, error) {
	return mmap.MapAnon(size)
}

// HeapAllocator allocates regions on the Go heap. Useful for tests and
// platforms without anonymous mappings.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(size int) (Block, error) {
	return heapBlock(make([]byte, size)), nil
}

type heapBlock []byte

func (b heapBlock) Bytes() []byte { return b }
func (b heapBlock) Close() error  { return nil }
