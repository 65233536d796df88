package offheap

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/primstore/internal/conv"
	"github.com/hupe1980/primstore/metrics"
)

// region is one allocated block. Regions are never resized in place.
type region struct {
	block Block
	data  []byte
}

func (r *region) address() uintptr {
	if len(r.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.data[0])) //nolint:gosec // address is only reported, never dereferenced
}

// cell publishes the live region. It is shared with the cleanup and must not
// reference the Arena, or the Arena could never become unreachable.
type cell struct {
	live     atomic.Pointer[region]
	alloc    Allocator
	acquirer MemoryAcquirer
	logger   *slog.Logger
	metrics  metrics.Collector
}

func (c *cell) allocate(capacity int64) (*region, error) {
	size, err := conv.Int64ToInt(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}

	if c.acquirer != nil && !c.acquirer.TryAcquireMemory(capacity) {
		return nil, fmt.Errorf("%w: %d bytes", ErrMemoryLimit, capacity)
	}

	block, err := c.alloc.Allocate(size)
	if err != nil {
		if c.acquirer != nil {
			c.acquirer.ReleaseMemory(capacity)
		}
		return nil, fmt.Errorf("offheap: allocate %d bytes: %w", capacity, err)
	}

	return &region{block: block, data: block.Bytes()}, nil
}

// discard returns r to its allocator and the memory budget.
func (c *cell) discard(r *region) {
	n := int64(len(r.data))
	if err := r.block.Close(); err != nil {
		c.logger.Error("offheap: release region", "bytes", n, "error", err)
	}
	if c.acquirer != nil {
		c.acquirer.ReleaseMemory(n)
	}
}

// release takes the live region out of the cell and discards it. The swap
// makes this happen at most once per region no matter who calls.
func (c *cell) release(reclaimed bool) {
	r := c.live.Swap(nil)
	if r == nil {
		return
	}
	n := int64(len(r.data))
	if reclaimed {
		c.logger.Warn("offheap: arena reclaimed without Free", "bytes", n)
	}
	c.discard(r)
	c.metrics.RecordArenaFree(n, reclaimed)
}

// Arena is a contiguous, manually managed memory region addressed by byte
// offset.
//
// An Arena has a single owner and is not safe for concurrent use. Call Free
// (or Close) when done; an Arena that becomes unreachable without being freed
// is released by a runtime cleanup and logged as a leak.
type Arena struct {
	capacity int64
	owned    *region // nil once freed
	cell     *cell
	cleanup  runtime.Cleanup
	logger   *slog.Logger
	metrics  metrics.Collector

	resizes     uint64
	resizeRaces uint64
}

// Stats describes an arena.
type Stats struct {
	Capacity    int64
	Address     uintptr
	Freed       bool
	Resizes     uint64 // successful resizes
	ResizeRaces uint64 // resizes rejected with ErrResizeRace
}

// New allocates an arena of capacity zeroed bytes.
func New(capacity int64, opts ...Option) (*Arena, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity=%d", ErrInvalidCapacity, capacity)
	}
	o := buildOptions(opts)

	c := &cell{
		alloc:    o.allocator,
		acquirer: o.acquirer,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	r, err := c.allocate(capacity)
	if err != nil {
		return nil, err
	}
	c.live.Store(r)

	a := &Arena{
		capacity: capacity,
		owned:    r,
		cell:     c,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	a.cleanup = runtime.AddCleanup(a, func(c *cell) { c.release(true) }, c)

	o.metrics.RecordArenaAlloc(capacity)
	return a, nil
}

// With allocates an arena, passes it to fn and frees it on every exit path,
// including panics.
func With(capacity int64, fn func(*Arena) error, opts ...Option) error {
	a, err := New(capacity, opts...)
	if err != nil {
		return err
	}
	defer a.Free()
	return fn(a)
}

// Capacity returns the size in bytes, or 0 once freed.
func (a *Arena) Capacity() int64 { return a.capacity }

// Freed reports whether Free has been called.
func (a *Arena) Freed() bool { return a.owned == nil }

// Address returns the address of the first byte, or 0 for an empty or freed
// arena. It changes on every successful Resize.
func (a *Arena) Address() uintptr {
	if a.owned == nil {
		return 0
	}
	return a.owned.address()
}

// Stats returns a snapshot of the arena's state.
func (a *Arena) Stats() Stats {
	return Stats{
		Capacity:    a.capacity,
		Address:     a.Address(),
		Freed:       a.Freed(),
		Resizes:     a.resizes,
		ResizeRaces: a.resizeRaces,
	}
}

// Resize moves the contents into a new region of newCapacity bytes. Bytes up
// to min(old, new) capacity are preserved and any growth reads as zero.
//
// The new region is published with a compare-and-swap against the region this
// owner last saw. If another party freed or replaced it in the meantime the
// new region is released and ErrResizeRace is returned.
func (a *Arena) Resize(newCapacity int64) error {
	if newCapacity < 0 {
		return fmt.Errorf("%w: capacity=%d", ErrInvalidCapacity, newCapacity)
	}
	old := a.owned
	if old == nil || a.cell.live.Load() != old {
		return ErrUseAfterFree
	}
	oldCapacity := a.capacity

	repl, err := a.cell.allocate(newCapacity)
	if err != nil {
		a.metrics.RecordArenaResize(oldCapacity, newCapacity, err)
		return err
	}

	// Skip the copy if the region is already gone; its bytes may be unmapped.
	if a.cell.live.Load() == old {
		copy(repl.data, old.data)
	}

	if !a.cell.live.CompareAndSwap(old, repl) {
		a.cell.discard(repl)
		a.resizeRaces++
		a.logger.Warn("offheap: resize lost race",
			"old_capacity", oldCapacity,
			"new_capacity", newCapacity,
		)
		a.metrics.RecordArenaResize(oldCapacity, newCapacity, ErrResizeRace)
		return ErrResizeRace
	}

	a.owned = repl
	a.capacity = newCapacity
	a.resizes++
	a.cell.discard(old)

	a.logger.Debug("offheap: resize",
		"old_capacity", oldCapacity,
		"new_capacity", newCapacity,
	)
	a.metrics.RecordArenaResize(oldCapacity, newCapacity, nil)
	return nil
}

// Clear zeroes every byte. It is a no-op on an empty or freed arena.
func (a *Arena) Clear() {
	if a.owned == nil || a.capacity == 0 {
		return
	}
	clear(a.owned.data)
}

// Free releases the region. It is idempotent, and after it returns the
// cleanup will never release anything.
func (a *Arena) Free() {
	if a.owned == nil && a.cell.live.Load() == nil {
		return
	}
	a.capacity = 0
	a.owned = nil
	a.cleanup.Stop()
	a.cell.release(false)
	runtime.KeepAlive(a)
}

// Close frees the arena. It implements io.Closer and always returns nil.
func (a *Arena) Close() error {
	a.Free()
	return nil
}

// view returns arena bytes [off, off+n) after bounds checking.
func (a *Arena) view(off, n int64) ([]byte, error) {
	if a.owned == nil {
		return nil, ErrUseAfterFree
	}
	if off < 0 || n < 0 || off > a.capacity-n {
		return nil, fmt.Errorf("%w: offset=%d length=%d capacity=%d", ErrOutOfRange, off, n, a.capacity)
	}
	return a.owned.data[off : off+n : off+n], nil
}

// Bytes returns the n bytes at off as a slice aliasing the arena. The slice
// is invalidated by Resize and Free.
func (a *Arena) Bytes(off, n int64) ([]byte, error) {
	return a.view(off, n)
}

// CopyTo copies n bytes starting at off into dst[dstIndex:].
func (a *Arena) CopyTo(off int64, dst []byte, dstIndex, n int) error {
	if err := checkSlice(len(dst), dstIndex, n); err != nil {
		return err
	}
	src, err := a.view(off, int64(n))
	if err != nil {
		return err
	}
	copy(dst[dstIndex:], src)
	return nil
}

// CopyFrom copies n bytes from src[srcIndex:] into the arena at off.
func (a *Arena) CopyFrom(off int64, src []byte, srcIndex, n int) error {
	if err := checkSlice(len(src), srcIndex, n); err != nil {
		return err
	}
	dst, err := a.view(off, int64(n))
	if err != nil {
		return err
	}
	copy(dst, src[srcIndex:srcIndex+n])
	return nil
}

// ZeroRange zeroes n bytes starting at off.
func (a *Arena) ZeroRange(off, n int64) error {
	b, err := a.view(off, n)
	if err != nil {
		return err
	}
	clear(b)
	return nil
}

func checkSlice(length, index, n int) error {
	if index < 0 || n < 0 || index > length-n {
		return fmt.Errorf("%w: index=%d length=%d slice length=%d", ErrOutOfRange, index, n, length)
	}
	return nil
}
