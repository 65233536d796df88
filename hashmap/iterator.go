package hashmap

// Iterator walks the live entries of a Map in reverse slot order.
//
// It fails fast: any change of the map's size not made through the iterator
// itself makes the next Advance or Remove return ErrConcurrentModification.
//
//	it := m.Iterator()
//	for it.HasNext() {
//		if err := it.Advance(); err != nil {
//			return err
//		}
//		if it.Value() < 0 {
//			_ = it.Remove()
//		}
//	}
type Iterator[K, V Scalar] struct {
	m            *Map[K, V]
	expectedSize int
	index        int
}

// Iterator returns a fail-fast iterator positioned before the first entry.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		m:            m,
		expectedSize: m.size,
		index:        len(m.states),
	}
}

func (it *Iterator[K, V]) nextIndex() int {
	states := it.m.states
	i := min(it.index, len(states)) - 1
	for i >= 0 && states[i] != stateFull {
		i--
	}
	return i
}

func (it *Iterator[K, V]) modified() bool {
	return it.expectedSize != it.m.size
}

// HasNext reports whether Advance can make progress. It also returns true
// after a concurrent modification so that Advance reports the error.
func (it *Iterator[K, V]) HasNext() bool {
	return it.modified() || it.nextIndex() >= 0
}

// Advance moves to the next live entry.
func (it *Iterator[K, V]) Advance() error {
	if it.modified() {
		return ErrConcurrentModification
	}
	i := it.nextIndex()
	if i < 0 {
		it.index = -1
		return ErrNoSuchElement
	}
	it.index = i
	return nil
}

// Key returns the key of the current entry. Only valid after a successful
// Advance.
func (it *Iterator[K, V]) Key() K {
	return it.m.keys[it.index]
}

// Value returns the value of the current entry.
func (it *Iterator[K, V]) Value() V {
	return it.m.values[it.index]
}

// SetValue replaces the value of the current entry and returns the old one.
func (it *Iterator[K, V]) SetValue(v V) V {
	old := it.m.values[it.index]
	it.m.values[it.index] = v
	return old
}

// Remove deletes the current entry. Auto-compaction is held off so that the
// remaining walk stays valid.
func (it *Iterator[K, V]) Remove() error {
	if it.modified() {
		return ErrConcurrentModification
	}
	m := it.m
	if it.index < 0 || it.index >= len(m.states) || m.states[it.index] != stateFull {
		return ErrIllegalState
	}

	m.DisableAutoCompaction()
	m.removeAt(it.index)
	m.EnableAutoCompaction(false)
	it.expectedSize--
	return nil
}
