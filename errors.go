package primstore

import (
	"errors"

	"github.com/hupe1980/primstore/blobstore"
	"github.com/hupe1980/primstore/hashmap"
	"github.com/hupe1980/primstore/offheap"
	"github.com/hupe1980/primstore/snapshot"
)

// Kind classifies an error independently of the package that returned it.
type Kind int

const (
	// KindUnknown is any error not listed below, including nil.
	KindUnknown Kind = iota
	// KindPrecondition is a caller error: invalid capacity, load factor,
	// offset or length.
	KindPrecondition
	// KindConcurrentModification is a structural change seen by a fail-fast
	// iterator.
	KindConcurrentModification
	// KindUseAfterFree is access to a released arena.
	KindUseAfterFree
	// KindResizeRace is an arena resize that lost against a concurrent free
	// or resize.
	KindResizeRace
	// KindUnsupportedOperation is a write through a read-only view.
	KindUnsupportedOperation
	// KindIllegalState is an iterator used out of order.
	KindIllegalState
	// KindCorrupt is undecodable persisted data.
	KindCorrupt
	// KindNotFound is a missing blob.
	KindNotFound
	// KindResourceExhausted is a refused memory budget.
	KindResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindConcurrentModification:
		return "concurrent_modification"
	case KindUseAfterFree:
		return "use_after_free"
	case KindResizeRace:
		return "resize_race"
	case KindUnsupportedOperation:
		return "unsupported_operation"
	case KindIllegalState:
		return "illegal_state"
	case KindCorrupt:
		return "corrupt"
	case KindNotFound:
		return "not_found"
	case KindResourceExhausted:
		return "resource_exhausted"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindPrecondition, []error{hashmap.ErrPrecondition, offheap.ErrPrecondition}},
	{KindConcurrentModification, []error{hashmap.ErrConcurrentModification}},
	{KindUseAfterFree, []error{offheap.ErrUseAfterFree}},
	{KindResizeRace, []error{offheap.ErrResizeRace}},
	{KindUnsupportedOperation, []error{hashmap.ErrUnsupportedOperation}},
	{KindIllegalState, []error{hashmap.ErrIllegalState, hashmap.ErrNoSuchElement}},
	{KindCorrupt, []error{
		hashmap.ErrCorrupt, snapshot.ErrCorrupt, snapshot.ErrKindMismatch,
		snapshot.ErrUnknownCodec, snapshot.ErrUnknownCompression,
	}},
	{KindNotFound, []error{blobstore.ErrNotFound}},
	{KindResourceExhausted, []error{offheap.ErrMemoryLimit}},
}

// KindOf returns the Kind of err, looking through wrapping. The first match
// in declaration order wins, so a snapshot that failed because its embedded
// map dump was corrupt is KindCorrupt.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindUnknown
}
