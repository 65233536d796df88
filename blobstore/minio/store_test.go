package minio

import (
	"context"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/primstore/blobstore"
)

func TestStore_Keys(t *testing.T) {
	s := NewStore(nil, "bucket", "/snapshots/")
	assert.Equal(t, "snapshots/a/b", s.key("a/b"))
	assert.Equal(t, "a/b", s.name("snapshots/a/b"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "x", bare.key("x"))
	assert.Equal(t, "x", bare.name("x"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestConnect(t *testing.T) {
	s, err := Connect("localhost:9000", "key", "secret", false, "bucket", "p")
	require.NoError(t, err)
	assert.Equal(t, "p/x", s.key("x"))
}

// TestStore_Integration needs a MinIO server; set MINIO_ENDPOINT to run it.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	const bucket = "test-primstore"
	ctx := context.Background()

	store, err := Connect(endpoint, "minioadmin", "minioadmin", false, bucket, "test-prefix/")
	require.NoError(t, err)

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())
	got, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, blob.Close())

	wb, err := store.Create(ctx, "stream.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")
	assert.Contains(t, names, "stream.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	require.NoError(t, store.Delete(ctx, "stream.txt"))
	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
