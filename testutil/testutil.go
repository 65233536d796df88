package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Int64s returns n pseudo-random int64 values, possibly negative and possibly
// repeated.
func (r *RNG) Int64s(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range out {
		out[i] = int64(r.rand.Uint64()) //nolint:gosec
	}
	return out
}

// DistinctInt64s returns n distinct non-zero int64 values in random order.
// Zero is excluded because it is the default no-entry key.
func (r *RNG) DistinctInt64s(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]struct{}, n)
	out := make([]int64, 0, n)
	for len(out) < n {
		v := int64(r.rand.Uint64()) //nolint:gosec
		if v == 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, n)
	_, _ = r.rand.Read(out)
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ZipfKeys returns n keys drawn from [1, keySpace] with Zipfian skew, so that
// a few hot keys are hit repeatedly.
func (r *RNG) ZipfKeys(n, keySpace int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]int64, n)
	for i := range keys {
		keys[i] = int64(r.zipfLocked(keySpace, s)) + 1
	}
	return keys
}

// OpKind is the type of a generated map operation.
type OpKind uint8

const (
	// OpPut inserts or overwrites.
	OpPut OpKind = iota
	// OpRemove deletes.
	OpRemove
	// OpGet reads.
	OpGet
	// OpAdjust adds to an existing value or inserts.
	OpAdjust
)

// Op is one step of a generated trace.
type Op struct {
	Kind  OpKind
	Key   int64
	Value int64
}

// Ops returns a trace of n operations over keys in [1, keySpace]. Puts and
// removes are equally likely, so long traces churn through many tombstones.
func (r *RNG) Ops(n, keySpace int) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		ops[i] = Op{
			Kind:  OpKind(r.rand.Intn(4)),
			Key:   int64(r.rand.Intn(keySpace)) + 1,
			Value: r.rand.Int63n(1 << 20),
		}
	}
	return ops
}
