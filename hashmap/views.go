package hashmap

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/hupe1980/primstore/internal/scalar"
)

// KeyView is a live set view of a Map's keys. Removing through the view
// removes the corresponding entries.
type KeyView[K, V Scalar] struct {
	m *Map[K, V]
}

// KeySet returns a live view of the keys.
func (m *Map[K, V]) KeySet() KeyView[K, V] {
	return KeyView[K, V]{m: m}
}

// Len returns the number of keys.
func (v KeyView[K, V]) Len() int { return v.m.size }

// IsEmpty reports whether the view has no keys.
func (v KeyView[K, V]) IsEmpty() bool { return v.m.size == 0 }

// NoEntryValue returns the no-entry key of the underlying map.
func (v KeyView[K, V]) NoEntryValue() K { return v.m.noEntryKey }

// Contains reports whether key is present.
func (v KeyView[K, V]) Contains(key K) bool { return v.m.ContainsKey(key) }

// ContainsAll reports whether every given key is present.
func (v KeyView[K, V]) ContainsAll(keys ...K) bool {
	for _, k := range keys {
		if !v.m.ContainsKey(k) {
			return false
		}
	}
	return true
}

// ToSlice returns the keys in reverse slot order.
func (v KeyView[K, V]) ToSlice() []K { return v.m.Keys() }

// Iterator returns a fail-fast iterator; use its Key method.
func (v KeyView[K, V]) Iterator() *Iterator[K, V] { return v.m.Iterator() }

// ForEach calls fn for each key until fn returns false.
func (v KeyView[K, V]) ForEach(fn func(K) bool) bool { return v.m.ForEachKey(fn) }

// All returns an iterator over the keys.
func (v KeyView[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range v.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Add is not supported: a key view cannot invent a value.
func (v KeyView[K, V]) Add(K) error { return ErrUnsupportedOperation }

// AddAll is not supported.
func (v KeyView[K, V]) AddAll(...K) error { return ErrUnsupportedOperation }

// Remove deletes the entry for key and reports whether it existed.
func (v KeyView[K, V]) Remove(key K) bool {
	idx := v.m.index(key)
	if idx < 0 {
		return false
	}
	v.m.removeAt(idx)
	return true
}

// RemoveAll deletes the entries for all given keys.
func (v KeyView[K, V]) RemoveAll(keys ...K) bool {
	modified := false
	v.m.DisableAutoCompaction()
	defer v.m.EnableAutoCompaction(true)

	for _, k := range keys {
		if v.Remove(k) {
			modified = true
		}
	}
	return modified
}

// RetainAll deletes every entry whose key is not among keys.
func (v KeyView[K, V]) RetainAll(keys ...K) bool {
	keep := sortedCopy(keys)
	return v.m.removeWhere(func(i int) bool {
		return !sortedContains(keep, v.m.keys[i])
	})
}

// Clear removes all entries of the underlying map.
func (v KeyView[K, V]) Clear() { v.m.Clear() }

// Equal reports whether both views hold the same keys.
func (v KeyView[K, V]) Equal(other KeyView[K, V]) bool {
	if other.m == nil || v.Len() != other.Len() {
		return false
	}
	return v.m.ForEachKey(other.Contains)
}

// HashCode returns the sum of the key hashes.
func (v KeyView[K, V]) HashCode() uint32 {
	var h uint32
	v.m.ForEachKey(func(k K) bool {
		h += scalar.Hash(k)
		return true
	})
	return h
}

// String formats the keys as {k1, k2, ...}.
func (v KeyView[K, V]) String() string {
	return formatSeq(v.m.ForEachKey)
}

// ValueView is a live collection view of a Map's values.
type ValueView[K, V Scalar] struct {
	m *Map[K, V]
}

// ValueCollection returns a live view of the values.
func (m *Map[K, V]) ValueCollection() ValueView[K, V] {
	return ValueView[K, V]{m: m}
}

// Len returns the number of values.
func (v ValueView[K, V]) Len() int { return v.m.size }

// IsEmpty reports whether the view has no values.
func (v ValueView[K, V]) IsEmpty() bool { return v.m.size == 0 }

// NoEntryValue returns the no-entry value of the underlying map.
func (v ValueView[K, V]) NoEntryValue() V { return v.m.noEntryValue }

// Contains reports whether any entry holds value.
func (v ValueView[K, V]) Contains(value V) bool { return v.m.ContainsValue(value) }

// ContainsAll reports whether every given value is held by some entry.
func (v ValueView[K, V]) ContainsAll(values ...V) bool {
	for _, x := range values {
		if !v.m.ContainsValue(x) {
			return false
		}
	}
	return true
}

// ToSlice returns the values in reverse slot order.
func (v ValueView[K, V]) ToSlice() []V { return v.m.Values() }

// Iterator returns a fail-fast iterator; use its Value method.
func (v ValueView[K, V]) Iterator() *Iterator[K, V] { return v.m.Iterator() }

// ForEach calls fn for each value until fn returns false.
func (v ValueView[K, V]) ForEach(fn func(V) bool) bool { return v.m.ForEachValue(fn) }

// All returns an iterator over the values.
func (v ValueView[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, x := range v.m.All() {
			if !yield(x) {
				return
			}
		}
	}
}

// Add is not supported.
func (v ValueView[K, V]) Add(V) error { return ErrUnsupportedOperation }

// AddAll is not supported.
func (v ValueView[K, V]) AddAll(...V) error { return ErrUnsupportedOperation }

// Remove deletes the first entry, in reverse slot order, holding value.
func (v ValueView[K, V]) Remove(value V) bool {
	m := v.m
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull && m.values[i] == value {
			m.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveAll deletes every entry whose value is among values.
func (v ValueView[K, V]) RemoveAll(values ...V) bool {
	drop := sortedCopy(values)
	return v.m.removeWhere(func(i int) bool {
		return sortedContains(drop, v.m.values[i])
	})
}

// RetainAll deletes every entry whose value is not among values.
func (v ValueView[K, V]) RetainAll(values ...V) bool {
	keep := sortedCopy(values)
	return v.m.removeWhere(func(i int) bool {
		return !sortedContains(keep, v.m.values[i])
	})
}

// Clear removes all entries of the underlying map.
func (v ValueView[K, V]) Clear() { v.m.Clear() }

// String formats the values as {v1, v2, ...}.
func (v ValueView[K, V]) String() string {
	return formatSeq(v.m.ForEachValue)
}

func sortedCopy[T cmp.Ordered](s []T) []T {
	c := slices.Clone(s)
	slices.Sort(c)
	return c
}

func sortedContains[T cmp.Ordered](s []T, x T) bool {
	_, ok := slices.BinarySearch(s, x)
	return ok
}

func formatSeq[T any](walk func(func(T) bool) bool) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	walk(func(x T) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprint(&b, x)
		return true
	})
	b.WriteByte('}')
	return b.String()
}
