// Package snapshot wraps the flat dump of a hashmap.Map in a self-describing,
// checksummed container and moves it to and from blob stores.
//
// # Format
//
// All integers are little-endian:
//
//	magic        "PSNP"
//	version      u16
//	compression  u8   (0 none, 1 lz4, 2 zstd)
//	codec        u8 length + name
//	descriptor   u32 length + codec-encoded Descriptor
//	body length  u64
//	body crc32c  u32  (Castagnoli, over the stored body)
//	body         flat dump, optionally compressed
//
// The descriptor records the key and value kinds so that reading a snapshot
// into the wrong Map type fails with ErrKindMismatch instead of producing
// garbage.
//
// # Resources
//
// WithController throttles snapshot IO and limits how many snapshots run at
// once through a shared resource.Controller.
package snapshot
