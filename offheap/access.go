package offheap

import (
	"github.com/hupe1980/primstore/internal/scalar"
)

// Scalar is the set of fixed-width types Load, Store and Array handle.
type Scalar = scalar.Scalar

// Load reads a T in host byte order from the arena at off. off need not be
// aligned.
func Load[T Scalar](a *Arena, off int64) (T, error) {
	b, err := a.view(off, int64(scalar.Size[T]()))
	if err != nil {
		var zero T
		return zero, err
	}
	return scalar.Native[T](b), nil
}

// Store writes v in host byte order into the arena at off.
func Store[T Scalar](a *Arena, off int64, v T) error {
	b, err := a.view(off, int64(scalar.Size[T]()))
	if err != nil {
		return err
	}
	scalar.PutNative(b, v)
	return nil
}
