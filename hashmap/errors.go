package hashmap

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is the parent of all caller-error sentinels.
	ErrPrecondition = errors.New("hashmap: precondition violation")

	// ErrInvalidCapacity is returned for negative capacities or expected sizes.
	ErrInvalidCapacity = fmt.Errorf("%w: invalid capacity", ErrPrecondition)

	// ErrInvalidLoadFactor is returned for load factors outside (0, 1].
	ErrInvalidLoadFactor = fmt.Errorf("%w: invalid load factor", ErrPrecondition)

	// ErrInvalidCompactionFactor is returned for negative auto-compaction factors.
	ErrInvalidCompactionFactor = fmt.Errorf("%w: invalid auto-compaction factor", ErrPrecondition)

	// ErrConcurrentModification is returned by iterators that observe a size
	// change they did not make themselves. The iteration must be restarted.
	ErrConcurrentModification = errors.New("hashmap: concurrent modification")

	// ErrNoSuchElement is returned by Advance past the last entry.
	ErrNoSuchElement = errors.New("hashmap: no such element")

	// ErrIllegalState is returned by Iterator.Remove when the iterator is not
	// positioned on a live entry.
	ErrIllegalState = errors.New("hashmap: iterator not positioned on a live entry")

	// ErrUnsupportedOperation is returned by view operations the view cannot
	// express, such as adding a bare key to a key view.
	ErrUnsupportedOperation = errors.New("hashmap: unsupported operation")

	// ErrCorrupt is returned by ReadFrom for malformed input.
	ErrCorrupt = errors.New("hashmap: corrupt serialized data")

	// ErrTableFull is the panic value for a probe sequence that found neither a
	// FREE nor a REMOVED slot. The growth policy makes this unreachable.
	ErrTableFull = errors.New("hashmap: no free or removed slots available")
)
