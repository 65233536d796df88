// Package prime picks table capacities from the prime sequence.
//
// Prime capacities combined with a hash-derived probe step give every probe
// sequence a full cycle over the table, which power-of-two tables only get with
// odd steps.
package prime

import (
	"math"
	"math/big"
)

// Min is the smallest capacity handed out. The probe step is computed modulo
// capacity-2, so anything below 3 is unusable.
const Min = 3

// Max is the largest prime representable as a non-negative int32. Capacities
// beyond it saturate.
const Max = math.MaxInt32

// IsPrime reports whether n is prime. The check is exact for all n < 2^64.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	return big.NewInt(int64(n)).ProbablyPrime(0)
}

// Next returns the smallest prime >= n, clamped to [Min, Max].
func Next(n int) int {
	if n <= Min {
		return Min
	}
	if n >= Max {
		return Max
	}
	if n%2 == 0 {
		n++
	}
	for !IsPrime(n) {
		n += 2
	}
	return n
}
