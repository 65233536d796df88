package hash

import (
	"fmt"
	"hash"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// MismatchError reports a checksum that does not match its payload.
type MismatchError struct {
	Want uint32
	Got  uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("crc32c mismatch: stored %08x, computed %08x", e.Want, e.Got)
}

// Verify returns a *MismatchError if the checksum of data is not want.
func Verify(data []byte, want uint32) error {
	if got := CRC32C(data); got != want {
		return &MismatchError{Want: want, Got: got}
	}
	return nil
}
