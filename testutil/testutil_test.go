package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctInt64s(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.DistinctInt64s(1000)

	assert.Len(t, keys, 1000)
	seen := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		assert.NotZero(t, k)
		seen[k] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestZipfKeys(t *testing.T) {
	rng := NewRNG(4711)

	keys := rng.ZipfKeys(2000, 50, 1.5)

	counts := make(map[int64]int)
	for _, k := range keys {
		assert.GreaterOrEqual(t, k, int64(1))
		assert.LessOrEqual(t, k, int64(50))
		counts[k]++
	}
	// The head of a Zipf distribution dominates the tail.
	assert.Greater(t, counts[1], counts[50])
}

func TestOps(t *testing.T) {
	rng := NewRNG(4711)

	ops := rng.Ops(500, 16)

	assert.Len(t, ops, 500)
	kinds := make(map[OpKind]bool)
	for _, op := range ops {
		assert.GreaterOrEqual(t, op.Key, int64(1))
		assert.LessOrEqual(t, op.Key, int64(16))
		kinds[op.Kind] = true
	}
	assert.Len(t, kinds, 4)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Int64s(10)

	rng.Reset()
	v2 := rng.Int64s(10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestBytes(t *testing.T) {
	rng := NewRNG(1)

	assert.Len(t, rng.Bytes(33), 33)
}
