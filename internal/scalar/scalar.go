// Package scalar provides the fixed-width scalar constraint shared by the hash
// engine and the off-heap arena, plus bit-level helpers over it.
//
// All helpers operate on the raw bit pattern of a value, so named types with a
// scalar underlying type (type UserID uint32) behave exactly like their
// underlying type.
package scalar

import (
	"encoding/binary"
	"reflect"
	"unsafe"
)

// Scalar is the set of fixed-width numeric types storable without boxing.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr |
		~float32 | ~float64
}

// Integer is the integer subset of Scalar.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr
}

// Size returns the width of T in bytes.
func Size[T Scalar]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Kind returns the name of T's underlying kind ("int32", "float64", ...).
func Kind[T Scalar]() string {
	return reflect.TypeFor[T]().Kind().String()
}

// IsFloat reports whether T is a floating point type.
func IsFloat[T Scalar]() bool {
	return T(1)/T(2) != 0
}

// Bits returns the raw bit pattern of v, zero-extended to 64 bits.
func Bits[T Scalar](v T) uint64 {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	default:
		return *(*uint64)(p)
	}
}

// FromBits is the inverse of Bits. High bits beyond the width of T are ignored.
func FromBits[T Scalar](b uint64) T {
	var v T
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		*(*uint8)(p) = uint8(b)
	case 2:
		*(*uint16)(p) = uint16(b)
	case 4:
		*(*uint32)(p) = uint32(b)
	default:
		*(*uint64)(p) = b
	}
	return v
}

// Hash folds the bit pattern of v into 32 bits.
//
// Values equal under == hash equally: negative zero hashes like zero. NaN has
// no stable identity under == and must not be used as a key.
func Hash[T Scalar](v T) uint32 {
	if v == 0 {
		return 0
	}
	b := Bits(v)
	return uint32(b ^ b>>32)
}

// AppendBigEndian appends the big-endian encoding of v to dst.
func AppendBigEndian[T Scalar](dst []byte, v T) []byte {
	b := Bits(v)
	switch Size[T]() {
	case 1:
		return append(dst, uint8(b))
	case 2:
		return binary.BigEndian.AppendUint16(dst, uint16(b))
	case 4:
		return binary.BigEndian.AppendUint32(dst, uint32(b))
	default:
		return binary.BigEndian.AppendUint64(dst, b)
	}
}

// BigEndian decodes a value of T from the first Size[T]() bytes of src.
func BigEndian[T Scalar](src []byte) T {
	switch Size[T]() {
	case 1:
		return FromBits[T](uint64(src[0]))
	case 2:
		return FromBits[T](uint64(binary.BigEndian.Uint16(src)))
	case 4:
		return FromBits[T](uint64(binary.BigEndian.Uint32(src)))
	default:
		return FromBits[T](binary.BigEndian.Uint64(src))
	}
}

// PutNative writes v into the first Size[T]() bytes of dst in host byte order.
func PutNative[T Scalar](dst []byte, v T) {
	b := Bits(v)
	switch Size[T]() {
	case 1:
		dst[0] = uint8(b)
	case 2:
		binary.NativeEndian.PutUint16(dst, uint16(b))
	case 4:
		binary.NativeEndian.PutUint32(dst, uint32(b))
	default:
		binary.NativeEndian.PutUint64(dst, b)
	}
}

// Native decodes a value of T from the first Size[T]() bytes of src in host
// byte order.
func Native[T Scalar](src []byte) T {
	switch Size[T]() {
	case 1:
		return FromBits[T](uint64(src[0]))
	case 2:
		return FromBits[T](uint64(binary.NativeEndian.Uint16(src)))
	case 4:
		return FromBits[T](uint64(binary.NativeEndian.Uint32(src)))
	default:
		return FromBits[T](binary.NativeEndian.Uint64(src))
	}
}
