package offheap

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is the parent of all caller-error sentinels.
	ErrPrecondition = errors.New("offheap: precondition violation")

	// ErrInvalidCapacity is returned for negative or unaddressable capacities.
	ErrInvalidCapacity = fmt.Errorf("%w: invalid capacity", ErrPrecondition)

	// ErrOutOfRange is returned for accesses outside the arena or the
	// caller's slice. Nothing is copied or truncated.
	ErrOutOfRange = fmt.Errorf("%w: out of range", ErrPrecondition)

	// ErrUseAfterFree is returned by operations on a freed arena.
	ErrUseAfterFree = errors.New("offheap: arena already freed")

	// ErrResizeRace is returned when the region changed hands while a resize
	// was copying. The arena is not resized and the replacement is released.
	ErrResizeRace = errors.New("offheap: region changed during resize")

	// ErrMemoryLimit is returned when the memory acquirer refuses a region.
	ErrMemoryLimit = errors.New("offheap: memory limit exceeded")
)
