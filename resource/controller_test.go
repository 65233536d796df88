package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	assert.True(t, c.TryAcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())
	assert.Equal(t, int64(10), c.MemoryAvailable())

	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	assert.True(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.MemoryPeak())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(context.Background(), 1000))
	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(-1), c.MemoryAvailable())

	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(1000), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryAcquireMemory(1<<50))
	require.NoError(t, c.AcquireMemory(context.Background(), 1))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryPeak())
	assert.True(t, c.TryAcquireBackground())
	require.NoError(t, c.AcquireBackground(context.Background()))
	c.ReleaseBackground()
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
	assert.Equal(t, Config{}, c.Config())
}

func TestController_Background(t *testing.T) {
	c := NewController(Config{MaxBackgroundWorkers: 2})

	require.NoError(t, c.AcquireBackground(context.Background()))
	require.NoError(t, c.AcquireBackground(context.Background()))
	assert.False(t, c.TryAcquireBackground())

	c.ReleaseBackground()
	assert.True(t, c.TryAcquireBackground())
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// A request above the bucket size must not fail outright.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 1<<20))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	r := NewRateLimitedReader(ctx, strings.NewReader("hello"), c)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewRateLimitedReader(canceled, strings.NewReader("x"), c).Read(make([]byte, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
