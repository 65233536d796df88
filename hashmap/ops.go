package hashmap

import (
	"iter"
	"slices"
)

// Put associates value with key and returns the previous value, or the
// no-entry value if key was absent.
func (m *Map[K, V]) Put(key K, value V) V {
	raw, consumedFree := m.insertKey(key)
	return m.doPut(value, raw, consumedFree)
}

// PutIfAbsent inserts value only if key is absent. It returns the value already
// associated with key, or the no-entry value if the insert happened.
func (m *Map[K, V]) PutIfAbsent(key K, value V) V {
	raw, consumedFree := m.insertKey(key)
	if idx, existed := slotOf(raw); existed {
		return m.values[idx]
	}
	return m.doPut(value, raw, consumedFree)
}

func (m *Map[K, V]) doPut(value V, raw int, consumedFree bool) V {
	idx, existed := slotOf(raw)
	previous := m.noEntryValue
	if existed {
		previous = m.values[idx]
	}
	m.values[idx] = value
	if !existed {
		m.postInsert(consumedFree)
	}
	return previous
}

// PutAll copies every entry of other into m.
func (m *Map[K, V]) PutAll(other *Map[K, V]) {
	if other == nil || other == m {
		return
	}
	m.EnsureCapacity(other.size)
	for i := len(other.states) - 1; i >= 0; i-- {
		if other.states[i] == stateFull {
			m.Put(other.keys[i], other.values[i])
		}
	}
}

// Get returns the value for key, or the no-entry value.
func (m *Map[K, V]) Get(key K) V {
	if idx := m.index(key); idx >= 0 {
		return m.values[idx]
	}
	return m.noEntryValue
}

// Lookup returns the value for key and whether it is present.
func (m *Map[K, V]) Lookup(key K) (V, bool) {
	if idx := m.index(key); idx >= 0 {
		return m.values[idx], true
	}
	return m.noEntryValue, false
}

// Remove deletes key and returns its previous value, or the no-entry value.
func (m *Map[K, V]) Remove(key K) V {
	idx := m.index(key)
	if idx < 0 {
		return m.noEntryValue
	}
	previous := m.values[idx]
	m.removeAt(idx)
	return previous
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.index(key) >= 0
}

// ContainsValue reports whether any live entry holds value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && m.values[i] == value {
			return true
		}
	}
	return false
}

// Increment adds one to the value of key if present.
func (m *Map[K, V]) Increment(key K) bool {
	return m.AdjustValue(key, 1)
}

// AdjustValue adds amount to the value of key if present.
func (m *Map[K, V]) AdjustValue(key K, amount V) bool {
	idx := m.index(key)
	if idx < 0 {
		return false
	}
	m.values[idx] += amount
	return true
}

// AdjustOrPutValue adds amount to the value of key, or inserts putAmount if
// key is absent. It returns the resulting value.
func (m *Map[K, V]) AdjustOrPutValue(key K, amount, putAmount V) V {
	raw, consumedFree := m.insertKey(key)
	idx, existed := slotOf(raw)
	if existed {
		m.values[idx] += amount
		return m.values[idx]
	}
	m.values[idx] = putAmount
	m.postInsert(consumedFree)
	return putAmount
}

// Upsert stores fn(old, existed) under key and returns it. For an absent key
// old is the no-entry value. fn must not modify m.
func (m *Map[K, V]) Upsert(key K, fn func(old V, existed bool) V) V {
	if idx := m.index(key); idx >= 0 {
		m.values[idx] = fn(m.values[idx], true)
		return m.values[idx]
	}

	value := fn(m.noEntryValue, false)
	raw, consumedFree := m.insertKey(key)
	m.doPut(value, raw, consumedFree)
	return value
}

// Keys returns the live keys in reverse slot order.
func (m *Map[K, V]) Keys() []K {
	return m.AppendKeys(make([]K, 0, m.size))
}

// AppendKeys appends the live keys to dst in reverse slot order.
func (m *Map[K, V]) AppendKeys(dst []K) []K {
	dst = slices.Grow(dst, m.size)
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull {
			dst = append(dst, m.keys[i])
		}
	}
	return dst
}

// Values returns the live values in reverse slot order.
func (m *Map[K, V]) Values() []V {
	return m.AppendValues(make([]V, 0, m.size))
}

// AppendValues appends the live values to dst in reverse slot order.
func (m *Map[K, V]) AppendValues(dst []V) []V {
	dst = slices.Grow(dst, m.size)
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull {
			dst = append(dst, m.values[i])
		}
	}
	return dst
}

// ForEachKey calls fn for each key until fn returns false. It reports whether
// the walk completed.
func (m *Map[K, V]) ForEachKey(fn func(K) bool) bool {
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && !fn(m.keys[i]) {
			return false
		}
	}
	return true
}

// ForEachValue calls fn for each value until fn returns false.
func (m *Map[K, V]) ForEachValue(fn func(V) bool) bool {
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && !fn(m.values[i]) {
			return false
		}
	}
	return true
}

// ForEachEntry calls fn for each entry until fn returns false.
func (m *Map[K, V]) ForEachEntry(fn func(K, V) bool) bool {
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && !fn(m.keys[i], m.values[i]) {
			return false
		}
	}
	return true
}

// TransformValues replaces every value v with fn(v).
func (m *Map[K, V]) TransformValues(fn func(V) V) {
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull {
			m.values[i] = fn(m.values[i])
		}
	}
}

// RetainEntries removes every entry for which fn returns false and reports
// whether anything was removed.
func (m *Map[K, V]) RetainEntries(fn func(K, V) bool) bool {
	return m.removeWhere(func(i int) bool {
		return !fn(m.keys[i], m.values[i])
	})
}

// removeWhere removes the live slots matching drop with auto-compaction
// suspended, then lets one compaction run if due.
func (m *Map[K, V]) removeWhere(drop func(i int) bool) bool {
	modified := false
	m.DisableAutoCompaction()
	defer m.EnableAutoCompaction(true)

	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && drop(i) {
			m.removeAt(i)
			modified = true
		}
	}
	return modified
}

// All returns an iterator over the entries in reverse slot order. It panics
// with ErrConcurrentModification if the map changes size during the loop.
// Use Iterator to remove entries while iterating.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Iterator()
		for it.HasNext() {
			if err := it.Advance(); err != nil {
				panic(err)
			}
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Clone returns an independent copy of m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := *m
	c.keys = slices.Clone(m.keys)
	c.values = slices.Clone(m.values)
	c.states = slices.Clone(m.states)
	c.compactionPaused = 0
	return &c
}
