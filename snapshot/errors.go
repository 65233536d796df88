package snapshot

import "errors"

var (
	// ErrCorrupt is returned when a snapshot fails validation: bad magic,
	// unknown version, checksum mismatch or a malformed body.
	ErrCorrupt = errors.New("snapshot: corrupt")

	// ErrKindMismatch is returned when a snapshot's key or value kind does
	// not match the requested Map type.
	ErrKindMismatch = errors.New("snapshot: kind mismatch")

	// ErrUnknownCodec is returned when the descriptor codec is not built in.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrUnknownCompression is returned for an unsupported compression id.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
)
