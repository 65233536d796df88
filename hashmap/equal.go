package hashmap

import (
	"fmt"
	"strings"

	"github.com/hupe1980/primstore/internal/scalar"
)

// Equal reports whether m and other hold the same entries.
//
// A value pair also counts as matching when either side equals its own map's
// no-entry value, so a key mapped to the sentinel compares equal to a key
// mapped to anything.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if other == nil || m.size != other.size {
		return false
	}
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] != stateFull {
			continue
		}
		this := m.values[i]
		that := other.Get(m.keys[i])
		if this != that && this != m.noEntryValue && that != other.noEntryValue {
			return false
		}
	}
	return true
}

// HashCode returns the wrapping sum of hash(key) ^ hash(value) over all
// entries. Maps that are Equal without sentinel matches hash equally.
func (m *Map[K, V]) HashCode() uint32 {
	var h uint32
	for i := len(m.states) - 1; i >= 0; i-- {
		if m.states[i] == stateFull {
			h += scalar.Hash(m.keys[i]) ^ scalar.Hash(m.values[i])
		}
	}
	return h
}

// String formats the entries as {k1=v1, k2=v2}.
func (m *Map[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.ForEachEntry(func(k K, v V) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v=%v", k, v)
		return true
	})
	b.WriteByte('}')
	return b.String()
}
