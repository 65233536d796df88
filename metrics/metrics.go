// Package metrics defines the operational metrics hooks of primstore.
//
// Engines call a Collector on structural events only (rehash, arena resize,
// snapshot IO), never on the per-entry hot path.
//
// Example Prometheus integration:
//
//	reg := prometheus.NewRegistry()
//	c, _ := promcollector.New(reg, "myapp")
//	m, _ := hashmap.New[int64, float64](hashmap.WithMetrics(c))
package metrics

import (
	"sync/atomic"
	"time"
)

// RehashReason says why a hash table rebuilt its backing arrays.
type RehashReason string

const (
	// RehashGrow is a capacity increase after the load factor was exceeded.
	RehashGrow RehashReason = "grow"
	// RehashFlush is a same-capacity rebuild because no FREE slot remained.
	RehashFlush RehashReason = "flush"
	// RehashCompact is an automatic or explicit tombstone compaction.
	RehashCompact RehashReason = "compact"
	// RehashTrim is a shrink-to-fit rebuild.
	RehashTrim RehashReason = "trim"
	// RehashReserve is a rebuild from EnsureCapacity.
	RehashReserve RehashReason = "reserve"
)

// SnapshotOp identifies a snapshot operation.
type SnapshotOp string

const (
	// SnapshotWrite is a snapshot encode.
	SnapshotWrite SnapshotOp = "write"
	// SnapshotRead is a snapshot decode.
	SnapshotRead SnapshotOp = "read"
)

// Collector receives operational events from the engines.
// Implementations must be safe for concurrent use.
type Collector interface {
	// RecordRehash is called after a hash table rebuilt its slot arrays.
	RecordRehash(oldCapacity, newCapacity int, reason RehashReason)

	// RecordArenaAlloc is called after an arena region was allocated.
	RecordArenaAlloc(bytes int64)

	// RecordArenaResize is called after every resize attempt.
	RecordArenaResize(oldBytes, newBytes int64, err error)

	// RecordArenaFree is called when an arena region is released.
	// reclaimed is true when the release came from the leak backstop rather
	// than an explicit Free.
	RecordArenaFree(bytes int64, reclaimed bool)

	// RecordSnapshot is called after each snapshot encode/decode.
	RecordSnapshot(op SnapshotOp, bytes int64, duration time.Duration, err error)
}

// Noop is a Collector that discards everything.
type Noop struct{}

func (Noop) RecordRehash(int, int, RehashReason)                    {}
func (Noop) RecordArenaAlloc(int64)                                 {}
func (Noop) RecordArenaResize(int64, int64, error)                  {}
func (Noop) RecordArenaFree(int64, bool)                            {}
func (Noop) RecordSnapshot(SnapshotOp, int64, time.Duration, error) {}

// Basic provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type Basic struct {
	Rehashes        atomic.Int64
	Grows           atomic.Int64
	Compactions     atomic.Int64
	ArenaAllocs     atomic.Int64
	ArenaBytes      atomic.Int64
	ArenaResizes    atomic.Int64
	ArenaResizeErrs atomic.Int64
	ArenaFrees      atomic.Int64
	ArenaReclaimed  atomic.Int64
	SnapshotWrites  atomic.Int64
	SnapshotReads   atomic.Int64
	SnapshotErrors  atomic.Int64
	SnapshotBytes   atomic.Int64
	SnapshotNanos   atomic.Int64
}

// RecordRehash implements Collector.
func (b *Basic) RecordRehash(_, _ int, reason RehashReason) {
	b.Rehashes.Add(1)
	switch reason {
	case RehashGrow:
		b.Grows.Add(1)
	case RehashCompact:
		b.Compactions.Add(1)
	}
}

// RecordArenaAlloc implements Collector.
func (b *Basic) RecordArenaAlloc(bytes int64) {
	b.ArenaAllocs.Add(1)
	b.ArenaBytes.Add(bytes)
}

// RecordArenaResize implements Collector.
func (b *Basic) RecordArenaResize(oldBytes, newBytes int64, err error) {
	b.ArenaResizes.Add(1)
	if err != nil {
		b.ArenaResizeErrs.Add(1)
		return
	}
	b.ArenaBytes.Add(newBytes - oldBytes)
}

// RecordArenaFree implements Collector.
func (b *Basic) RecordArenaFree(bytes int64, reclaimed bool) {
	b.ArenaFrees.Add(1)
	b.ArenaBytes.Add(-bytes)
	if reclaimed {
		b.ArenaReclaimed.Add(1)
	}
}

// RecordSnapshot implements Collector.
func (b *Basic) RecordSnapshot(op SnapshotOp, bytes int64, duration time.Duration, err error) {
	switch op {
	case SnapshotWrite:
		b.SnapshotWrites.Add(1)
	case SnapshotRead:
		b.SnapshotReads.Add(1)
	}
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
	b.SnapshotNanos.Add(duration.Nanoseconds())
}

// Stats is a point-in-time copy of a Basic collector.
type Stats struct {
	Rehashes       int64
	Grows          int64
	Compactions    int64
	ArenaBytes     int64
	ArenaResizes   int64
	ArenaReclaimed int64
	SnapshotWrites int64
	SnapshotReads  int64
	SnapshotErrors int64
}

// Snapshot returns the current counter values.
func (b *Basic) Snapshot() Stats {
	return Stats{
		Rehashes:       b.Rehashes.Load(),
		Grows:          b.Grows.Load(),
		Compactions:    b.Compactions.Load(),
		ArenaBytes:     b.ArenaBytes.Load(),
		ArenaResizes:   b.ArenaResizes.Load(),
		ArenaReclaimed: b.ArenaReclaimed.Load(),
		SnapshotWrites: b.SnapshotWrites.Load(),
		SnapshotReads:  b.SnapshotReads.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
	}
}
