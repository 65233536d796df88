// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = snapshot.Save(ctx, store, "prices.psnp", m)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart streaming uploads through the SDK upload manager
//   - CRC32C integrity checks on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
