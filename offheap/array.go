package offheap

import (
	"fmt"

	"github.com/hupe1980/primstore/internal/scalar"
)

// Array is a fixed-length sequence of T stored in an Arena.
type Array[T Scalar] struct {
	arena *Arena
	n     int64
}

// NewArray allocates an array of n zero elements.
func NewArray[T Scalar](n int64, opts ...Option) (*Array[T], error) {
	bytes, err := arrayBytes[T](n)
	if err != nil {
		return nil, err
	}
	a, err := New(bytes, opts...)
	if err != nil {
		return nil, err
	}
	return &Array[T]{arena: a, n: n}, nil
}

func arrayBytes[T Scalar](n int64) (int64, error) {
	size := int64(scalar.Size[T]())
	if n < 0 || n > (1<<62)/size {
		return 0, fmt.Errorf("%w: length=%d", ErrInvalidCapacity, n)
	}
	return n * size, nil
}

func (a *Array[T]) offset(i int64) (int64, error) {
	if a.arena.Freed() {
		return 0, ErrUseAfterFree
	}
	if i < 0 || i >= a.n {
		return 0, fmt.Errorf("%w: index=%d length=%d", ErrOutOfRange, i, a.n)
	}
	return i * int64(scalar.Size[T]()), nil
}

// Len returns the number of elements, or 0 once freed.
func (a *Array[T]) Len() int64 { return a.n }

// Arena returns the backing arena.
func (a *Array[T]) Arena() *Arena { return a.arena }

// Get returns element i.
func (a *Array[T]) Get(i int64) (T, error) {
	off, err := a.offset(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return Load[T](a.arena, off)
}

// Set stores v at element i.
func (a *Array[T]) Set(i int64, v T) error {
	off, err := a.offset(i)
	if err != nil {
		return err
	}
	return Store(a.arena, off, v)
}

// Resize changes the length to n, keeping the common prefix. New elements are
// zero.
func (a *Array[T]) Resize(n int64) error {
	bytes, err := arrayBytes[T](n)
	if err != nil {
		return err
	}
	if err := a.arena.Resize(bytes); err != nil {
		return err
	}
	a.n = n
	return nil
}

// CopyTo copies elements [i, i+len(dst)) into dst.
func (a *Array[T]) CopyTo(i int64, dst []T) error {
	if err := a.checkRange(i, len(dst)); err != nil {
		return err
	}
	for j := range dst {
		v, err := a.Get(i + int64(j))
		if err != nil {
			return err
		}
		dst[j] = v
	}
	return nil
}

// CopyFrom copies src into elements [i, i+len(src)).
func (a *Array[T]) CopyFrom(i int64, src []T) error {
	if err := a.checkRange(i, len(src)); err != nil {
		return err
	}
	for j, v := range src {
		if err := a.Set(i+int64(j), v); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array[T]) checkRange(i int64, n int) error {
	if a.arena.Freed() {
		return ErrUseAfterFree
	}
	if i < 0 || i > a.n-int64(n) {
		return fmt.Errorf("%w: index=%d count=%d length=%d", ErrOutOfRange, i, n, a.n)
	}
	return nil
}

// Fill sets every element to v.
func (a *Array[T]) Fill(v T) error {
	if err := a.checkRange(0, 0); err != nil {
		return err
	}
	if v == 0 {
		a.arena.Clear()
		return nil
	}
	for i := range a.n {
		if err := a.Set(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Clear sets every element to zero.
func (a *Array[T]) Clear() { a.arena.Clear() }

// Free releases the backing arena. It is idempotent.
func (a *Array[T]) Free() {
	a.arena.Free()
	a.n = 0
}

// Close frees the array. It implements io.Closer.
func (a *Array[T]) Close() error {
	a.Free()
	return nil
}
