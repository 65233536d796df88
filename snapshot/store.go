package snapshot

import (
	"context"
	"errors"

	"github.com/hupe1980/primstore/blobstore"
	"github.com/hupe1980/primstore/hashmap"
)

// aborter is implemented by writable blobs that can cancel an unfinished
// upload.
type aborter interface {
	Abort() error
}

// Save writes m as a snapshot blob named name. The blob only becomes visible
// if the whole snapshot was written.
func Save[K, V hashmap.Scalar](ctx context.Context, store blobstore.BlobStore, name string, m *hashmap.Map[K, V], opts ...Option) (int64, error) {
	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	n, err := Write(ctx, w, m, opts...)
	if err != nil {
		if a, ok := w.(aborter); ok {
			return n, errors.Join(err, a.Abort())
		}
		return n, errors.Join(err, w.Close())
	}
	return n, w.Close()
}

// Load reads the snapshot blob named name into a new Map.
func Load[K, V hashmap.Scalar](ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*hashmap.Map[K, V], error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return Read[K, V](ctx, rc, opts...)
}
