package hashmap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyView(t *testing.T) {
	m := newFilled(t, 10)
	keys := m.KeySet()

	t.Run("read", func(t *testing.T) {
		assert.Equal(t, 10, keys.Len())
		assert.False(t, keys.IsEmpty())
		assert.True(t, keys.Contains(4))
		assert.False(t, keys.Contains(11))
		assert.True(t, keys.ContainsAll(1, 2, 3))
		assert.False(t, keys.ContainsAll(1, 99))
		assert.Equal(t, int64(0), keys.NoEntryValue())

		got := keys.ToSlice()
		slices.Sort(got)
		assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, got)

		var fromSeq []int64
		for k := range keys.All() {
			fromSeq = append(fromSeq, k)
		}
		assert.Equal(t, m.Keys(), fromSeq)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.ErrorIs(t, keys.Add(1), ErrUnsupportedOperation)
		assert.ErrorIs(t, keys.AddAll(1, 2), ErrUnsupportedOperation)
	})

	t.Run("equality", func(t *testing.T) {
		other := MustNew[int64, int64](WithCapacity(101))
		for k := int64(10); k >= 1; k-- {
			other.Put(k, -k)
		}
		assert.True(t, keys.Equal(other.KeySet()))
		assert.Equal(t, keys.HashCode(), other.KeySet().HashCode())

		other.Remove(10)
		assert.False(t, keys.Equal(other.KeySet()))
	})

	t.Run("live removal", func(t *testing.T) {
		c := m.Clone()
		kv := c.KeySet()

		assert.True(t, kv.Remove(1))
		assert.False(t, kv.Remove(1))
		assert.False(t, c.ContainsKey(1))

		assert.True(t, kv.RemoveAll(2, 3, 99))
		assert.Equal(t, 7, c.Len())

		assert.True(t, kv.RetainAll(4, 5, 6, 42))
		assert.Equal(t, 3, c.Len())
		assert.False(t, kv.RetainAll(4, 5, 6))

		kv.Clear()
		assert.True(t, c.IsEmpty())
		assert.Equal(t, 10, m.Len(), "original untouched")
	})

	t.Run("string", func(t *testing.T) {
		s := MustNew[int32, int32]()
		s.Put(5, 1)
		assert.Equal(t, "{5}", s.KeySet().String())
	})
}

func TestValueView(t *testing.T) {
	m := MustNew[int32, int32]()
	m.Put(1, 100)
	m.Put(2, 200)
	m.Put(3, 100)
	m.Put(4, 300)
	values := m.ValueCollection()

	t.Run("read", func(t *testing.T) {
		assert.Equal(t, 4, values.Len())
		assert.True(t, values.Contains(100))
		assert.False(t, values.Contains(400))
		assert.True(t, values.ContainsAll(100, 300))
		assert.False(t, values.ContainsAll(100, 400))

		got := values.ToSlice()
		slices.Sort(got)
		assert.Equal(t, []int32{100, 100, 200, 300}, got)

		n := 0
		for range values.All() {
			n++
		}
		assert.Equal(t, 4, n)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.ErrorIs(t, values.Add(1), ErrUnsupportedOperation)
		assert.ErrorIs(t, values.AddAll(1), ErrUnsupportedOperation)
	})

	t.Run("remove first match", func(t *testing.T) {
		c := m.Clone()
		vv := c.ValueCollection()

		require.True(t, vv.Remove(100))
		assert.Equal(t, 3, c.Len())
		assert.True(t, vv.Contains(100), "only one of the two entries is removed")
		assert.False(t, vv.Remove(999))
	})

	t.Run("remove all", func(t *testing.T) {
		c := m.Clone()
		vv := c.ValueCollection()

		assert.True(t, vv.RemoveAll(100))
		assert.Equal(t, 2, c.Len())
		assert.False(t, c.ContainsKey(1))
		assert.False(t, c.ContainsKey(3))
	})

	t.Run("retain all", func(t *testing.T) {
		c := m.Clone()
		vv := c.ValueCollection()

		assert.True(t, vv.RetainAll(200, 300))
		assert.Equal(t, 2, c.Len())
		assert.True(t, c.ContainsKey(2))
		assert.True(t, c.ContainsKey(4))
	})

	t.Run("string", func(t *testing.T) {
		s := MustNew[int32, int32]()
		s.Put(5, 1)
		assert.Equal(t, "{1}", s.ValueCollection().String())
	})
}
