package hashmap

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// KeysBitmap returns the keys of m as a compressed bitmap. Signed keys are
// stored by their two's-complement bit pattern, so negative keys land above
// math.MaxInt64 and convert back exactly with K(x).
func KeysBitmap[K Integer, V Scalar](m *Map[K, V]) *roaring64.Bitmap {
	b := roaring64.New()
	m.ForEachKey(func(k K) bool {
		b.Add(uint64(k))
		return true
	})
	return b
}

// RetainBitmap removes every entry whose key is not in b.
func RetainBitmap[K Integer, V Scalar](m *Map[K, V], b *roaring64.Bitmap) bool {
	return m.removeWhere(func(i int) bool {
		return !b.Contains(uint64(m.keys[i]))
	})
}

// RemoveBitmap removes every entry whose key is in b.
func RemoveBitmap[K Integer, V Scalar](m *Map[K, V], b *roaring64.Bitmap) bool {
	return m.removeWhere(func(i int) bool {
		return b.Contains(uint64(m.keys[i]))
	})
}
