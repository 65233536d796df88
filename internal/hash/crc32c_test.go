package hash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// Known answer from RFC 3720 (iSCSI), 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))

	h := NewCRC32C()
	_, _ = h.Write([]byte("hello "))
	_, _ = h.Write([]byte("world"))
	assert.Equal(t, CRC32C([]byte("hello world")), h.Sum32())
}

func TestVerify(t *testing.T) {
	data := []byte("payload")
	require.NoError(t, Verify(data, CRC32C(data)))

	err := Verify(data, 1)
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, uint32(1), mismatch.Want)
	assert.Equal(t, CRC32C(data), mismatch.Got)
}
