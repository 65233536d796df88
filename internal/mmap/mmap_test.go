package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(8192)
	require.NoError(t, err)
	defer m.Close()

	assert.True(t, m.Anonymous())
	assert.Equal(t, 8192, m.Size())

	b := m.Bytes()
	require.Len(t, b, 8192)
	for _, x := range b {
		require.Zero(t, x)
	}

	b[0], b[8191] = 0xaa, 0xbb
	assert.Equal(t, byte(0xaa), m.Bytes()[0])
	assert.Equal(t, byte(0xbb), m.Bytes()[8191])

	require.NoError(t, m.Advise(AccessRandom))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")
	assert.True(t, m.Closed())
	assert.Nil(t, m.Bytes())
}

func TestMapAnon_Sizes(t *testing.T) {
	m, err := MapAnon(0)
	require.NoError(t, err)
	assert.Empty(t, m.Bytes())
	require.NoError(t, m.Close())

	_, err = MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestOpen(t *testing.T) {
	content := []byte("Hello, Mmap!")
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.False(t, m.Anonymous())
	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())

	buf := make([]byte, 5)
	n, err := m.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "Mmap!", string(buf))

	n, err = m.ReadAt(make([]byte, 10), 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	partial := make([]byte, 10)
	n, err = m.ReadAt(partial, 7)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)

	_, err = m.ReadAt(buf, -1)
	assert.Equal(t, ErrInvalidOffset, err)
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	n, err := m.ReadAt(make([]byte, 1), 0)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestRegion(t *testing.T) {
	m, err := MapAnon(1024)
	require.NoError(t, err)

	r, err := m.Region(100, 200)
	require.NoError(t, err)
	assert.Len(t, r.Bytes(), 200)
	require.NoError(t, r.Advise(AccessSequential))

	r.Bytes()[0] = 7
	assert.Equal(t, byte(7), m.Bytes()[100])

	_, err = m.Region(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Region(1000, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())
	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(AccessDefault), ErrClosed)
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}
