package hashmap

import (
	"log/slog"
	"math"

	"github.com/hupe1980/primstore/internal/prime"
	"github.com/hupe1980/primstore/internal/scalar"
	"github.com/hupe1980/primstore/metrics"
)

// Scalar is the set of key and value types a Map can hold.
type Scalar = scalar.Scalar

// Integer is the integer subset of Scalar.
type Integer = scalar.Integer

const (
	stateFree uint8 = iota
	stateFull
	stateRemoved
)

// Map is an open-addressing hash table from K to V.
//
// Absent keys read as the no-entry value and removed slots hold the no-entry
// key and value. A Map is not safe for concurrent use.
type Map[K, V Scalar] struct {
	keys   []K
	values []V
	states []uint8

	size    int
	removed int
	free    int
	maxSize int

	loadFactor   float32
	noEntryKey   K
	noEntryValue V

	compactionFactor float32
	removesRemaining int
	compactionPaused int

	logger  *slog.Logger
	metrics metrics.Collector
}

// New creates a Map whose no-entry key and value are zero.
func New[K, V Scalar](opts ...Option) (*Map[K, V], error) {
	var (
		k K
		v V
	)
	return NewWithSentinels(k, v, opts...)
}

// NewWithSentinels creates a Map that reports noEntryValue for absent keys and
// writes noEntryKey into removed slots.
func NewWithSentinels[K, V Scalar](noEntryKey K, noEntryValue V, opts ...Option) (*Map[K, V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	m := &Map[K, V]{
		loadFactor:       o.loadFactor,
		noEntryKey:       noEntryKey,
		noEntryValue:     noEntryValue,
		compactionFactor: o.compactionFactor,
		logger:           o.logger,
		metrics:          o.metrics,
	}
	m.setUp(o.initialCapacity())
	return m, nil
}

// MustNew is like New but panics on invalid options.
func MustNew[K, V Scalar](opts ...Option) *Map[K, V] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// setUp allocates empty slot arrays of the given capacity.
func (m *Map[K, V]) setUp(capacity int) {
	m.allocate(capacity)
	m.size = 0
	m.removed = 0
	m.computeMaxSize(capacity)
	m.resetCompactionBudget()
}

func (m *Map[K, V]) allocate(capacity int) {
	m.keys = make([]K, capacity)
	m.values = make([]V, capacity)
	m.states = make([]uint8, capacity)
	if m.noEntryKey != 0 {
		for i := range m.keys {
			m.keys[i] = m.noEntryKey
		}
	}
	if m.noEntryValue != 0 {
		for i := range m.values {
			m.values[i] = m.noEntryValue
		}
	}
}

func (m *Map[K, V]) computeMaxSize(capacity int) {
	m.maxSize = min(capacity-1, int(math.Floor(float64(capacity)*float64(m.loadFactor))))
	m.free = capacity - m.size - m.removed
}

func (m *Map[K, V]) resetCompactionBudget() {
	if m.compactionFactor != 0 {
		m.removesRemaining = int(math.Round(float64(len(m.states)) * float64(m.compactionFactor)))
	}
}

func (m *Map[K, V]) hash(key K) int {
	return int(scalar.Hash(key) & 0x7fffffff)
}

// index returns the slot holding key, or -1.
func (m *Map[K, V]) index(key K) int {
	states := m.states
	h := m.hash(key)
	idx := h % len(states)

	switch states[idx] {
	case stateFree:
		return -1
	case stateFull:
		if m.keys[idx] == key {
			return idx
		}
	}
	return m.indexRehashed(key, idx, h)
}

func (m *Map[K, V]) indexRehashed(key K, idx, h int) int {
	states := m.states
	length := len(states)
	probe := 1 + h%(length-2)
	loop := idx

	for {
		idx -= probe
		if idx < 0 {
			idx += length
		}
		if idx == loop {
			return -1
		}
		switch states[idx] {
		case stateFree:
			return -1
		case stateFull:
			if m.keys[idx] == key {
				return idx
			}
		}
	}
}

// insertKey claims a slot for key and marks it FULL. If key is already live at
// slot i the result is -(i+1) and nothing changes. consumedFree reports whether
// a FREE slot, as opposed to a tombstone, was taken.
func (m *Map[K, V]) insertKey(key K) (idx int, consumedFree bool) {
	h := m.hash(key)
	idx = h % len(m.states)

	switch m.states[idx] {
	case stateFree:
		m.insertKeyAt(idx, key)
		return idx, true
	case stateFull:
		if m.keys[idx] == key {
			return -idx - 1, false
		}
	}
	return m.insertKeyRehash(key, idx, h)
}

func (m *Map[K, V]) insertKeyRehash(key K, idx, h int) (int, bool) {
	states := m.states
	length := len(states)
	probe := 1 + h%(length-2)
	loop := idx
	firstRemoved := -1

	for {
		if firstRemoved == -1 && states[idx] == stateRemoved {
			firstRemoved = idx
		}
		idx -= probe
		if idx < 0 {
			idx += length
		}
		if idx == loop {
			break
		}
		switch states[idx] {
		case stateFree:
			if firstRemoved != -1 {
				m.insertKeyAt(firstRemoved, key)
				return firstRemoved, false
			}
			m.insertKeyAt(idx, key)
			return idx, true
		case stateFull:
			if m.keys[idx] == key {
				return -idx - 1, false
			}
		}
	}

	if firstRemoved != -1 {
		m.insertKeyAt(firstRemoved, key)
		return firstRemoved, false
	}
	panic(ErrTableFull)
}

func (m *Map[K, V]) insertKeyAt(idx int, key K) {
	if m.states[idx] == stateRemoved {
		m.removed--
	}
	m.keys[idx] = key
	m.states[idx] = stateFull
}

// slotOf splits an insertKey result into a slot and whether the key existed.
func slotOf(raw int) (idx int, existed bool) {
	if raw < 0 {
		return -raw - 1, true
	}
	return raw, false
}

// postInsert accounts for a new live entry and restores the load invariants.
func (m *Map[K, V]) postInsert(consumedFree bool) {
	if consumedFree {
		m.free--
	}
	m.size++

	switch {
	case m.size > m.maxSize:
		m.rehash(m.growCapacity(), metrics.RehashGrow)
	case m.free == 0:
		m.rehash(len(m.states), metrics.RehashFlush)
	}
}

// growCapacity doubles the capacity, or more if the load factor demands it.
func (m *Map[K, V]) growCapacity() int {
	c := len(m.states)
	if c >= prime.Max/2 {
		return prime.Max
	}
	return max(prime.Next(c<<1), capacityFor(m.size, m.loadFactor))
}

// rehash rebuilds the slot arrays at newCapacity, dropping all tombstones.
func (m *Map[K, V]) rehash(newCapacity int, reason metrics.RehashReason) {
	oldCapacity := len(m.states)
	oldKeys, oldValues, oldStates := m.keys, m.values, m.states

	m.allocate(newCapacity)
	m.removed = 0

	for i := oldCapacity - 1; i >= 0; i-- {
		if oldStates[i] == stateFull {
			idx, _ := m.insertKey(oldKeys[i])
			m.values[idx] = oldValues[i]
		}
	}

	m.computeMaxSize(newCapacity)
	m.resetCompactionBudget()

	m.logger.Debug("hashmap rehash",
		"reason", string(reason),
		"old_capacity", oldCapacity,
		"new_capacity", newCapacity,
		"size", m.size,
	)
	m.metrics.RecordRehash(oldCapacity, newCapacity, reason)
}

// removeAt turns the live slot idx into a tombstone.
func (m *Map[K, V]) removeAt(idx int) {
	m.keys[idx] = m.noEntryKey
	m.values[idx] = m.noEntryValue
	m.states[idx] = stateRemoved
	m.size--
	m.removed++

	if m.compactionFactor != 0 {
		m.removesRemaining--
		if m.compactionPaused == 0 && m.removesRemaining <= 0 {
			m.Compact()
		}
	}
}

// Compact rebuilds the table at its current capacity, discarding tombstones.
func (m *Map[K, V]) Compact() {
	m.rehash(len(m.states), metrics.RehashCompact)
}

// TrimToSize rebuilds the table at the smallest prime capacity that still
// holds the live entries within the load factor.
func (m *Map[K, V]) TrimToSize() {
	c := max(prime.Next(m.size+1), capacityFor(m.size, m.loadFactor))
	if c == len(m.states) && m.removed == 0 {
		return
	}
	m.rehash(c, metrics.RehashTrim)
}

// EnsureCapacity grows the table so that n more entries fit without a rehash.
func (m *Map[K, V]) EnsureCapacity(n int) {
	if n <= m.maxSize-m.size {
		return
	}
	c := capacityFor(m.size+n, m.loadFactor)
	if c <= len(m.states) {
		return
	}
	m.rehash(c, metrics.RehashReserve)
}

// DisableAutoCompaction suspends automatic compaction, typically around a
// batch of removals. Calls nest; each must be paired with EnableAutoCompaction.
func (m *Map[K, V]) DisableAutoCompaction() {
	m.compactionPaused++
}

// EnableAutoCompaction ends one DisableAutoCompaction bracket. When the
// outermost bracket closes and checkForCompaction is set, a compaction runs if
// the removal budget is exhausted.
func (m *Map[K, V]) EnableAutoCompaction(checkForCompaction bool) {
	if m.compactionPaused > 0 {
		m.compactionPaused--
	}
	if m.compactionPaused == 0 && checkForCompaction &&
		m.compactionFactor != 0 && m.removesRemaining <= 0 {
		m.Compact()
	}
}

// Capacity returns the number of slots.
func (m *Map[K, V]) Capacity() int { return len(m.states) }

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map has no live entries.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// LoadFactor returns the configured load factor.
func (m *Map[K, V]) LoadFactor() float32 { return m.loadFactor }

// NoEntryKey returns the key written into removed slots.
func (m *Map[K, V]) NoEntryKey() K { return m.noEntryKey }

// NoEntryValue returns the value reported for absent keys.
func (m *Map[K, V]) NoEntryValue() V { return m.noEntryValue }

// Clear removes all entries, keeping the capacity.
func (m *Map[K, V]) Clear() {
	for i := range m.states {
		m.keys[i] = m.noEntryKey
		m.values[i] = m.noEntryValue
		m.states[i] = stateFree
	}
	m.size = 0
	m.removed = 0
	m.free = len(m.states)
	m.resetCompactionBudget()
}
