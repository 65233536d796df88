package primstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/primstore/blobstore"
	"github.com/hupe1980/primstore/hashmap"
	"github.com/hupe1980/primstore/offheap"
	"github.com/hupe1980/primstore/snapshot"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("other"), KindUnknown},
		{hashmap.ErrInvalidLoadFactor, KindPrecondition},
		{fmt.Errorf("wrapped: %w", offheap.ErrOutOfRange), KindPrecondition},
		{offheap.ErrInvalidCapacity, KindPrecondition},
		{hashmap.ErrConcurrentModification, KindConcurrentModification},
		{offheap.ErrUseAfterFree, KindUseAfterFree},
		{offheap.ErrResizeRace, KindResizeRace},
		{hashmap.ErrUnsupportedOperation, KindUnsupportedOperation},
		{hashmap.ErrNoSuchElement, KindIllegalState},
		{hashmap.ErrIllegalState, KindIllegalState},
		{fmt.Errorf("%w: %w", snapshot.ErrCorrupt, hashmap.ErrCorrupt), KindCorrupt},
		{snapshot.ErrKindMismatch, KindCorrupt},
		{blobstore.ErrNotFound, KindNotFound},
		{offheap.ErrMemoryLimit, KindResourceExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "resize_race", KindResizeRace.String())
}
