// Package blobstore provides the storage targets for snapshots.
//
// A BlobStore holds named, immutable blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, memory-mapped reads, atomic renames
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs that can hand out their bytes without copying also implement
// Mappable; ReadAll takes that path when it is available.
package blobstore
