package offheap

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/primstore/metrics"
	"github.com/hupe1980/primstore/resource"
)

func TestArena_New(t *testing.T) {
	t.Run("zeroed", func(t *testing.T) {
		a, err := New(4096)
		require.NoError(t, err)
		defer a.Free()

		assert.Equal(t, int64(4096), a.Capacity())
		assert.NotZero(t, a.Address())
		assert.False(t, a.Freed())

		b, err := a.Bytes(0, 4096)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 4096), b)
	})

	t.Run("empty", func(t *testing.T) {
		a, err := New(0)
		require.NoError(t, err)
		defer a.Free()

		assert.Equal(t, int64(0), a.Capacity())
		assert.Zero(t, a.Address())
		assert.False(t, a.Freed())
		a.Clear()
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := New(-1)
		require.ErrorIs(t, err, ErrInvalidCapacity)
		assert.ErrorIs(t, err, ErrPrecondition)
	})
}

func TestArena_ResizePreservesBytes(t *testing.T) {
	for _, alloc := range []Allocator{MmapAllocator{}, HeapAllocator{}} {
		t.Run(allocName(alloc), func(t *testing.T) {
			a, err := New(16, WithAllocator(alloc))
			require.NoError(t, err)
			defer a.Free()

			src := []byte("0123456789abcdef")
			require.NoError(t, a.CopyFrom(0, src, 0, len(src)))
			before := a.Address()

			require.NoError(t, a.Resize(64))
			assert.Equal(t, int64(64), a.Capacity())
			assert.NotEqual(t, before, a.Address())

			got := make([]byte, 64)
			require.NoError(t, a.CopyTo(0, got, 0, 64))
			assert.Equal(t, src, got[:16])
			assert.Equal(t, make([]byte, 48), got[16:], "grown tail reads as zero")

			require.NoError(t, a.Resize(4))
			got = make([]byte, 4)
			require.NoError(t, a.CopyTo(0, got, 0, 4))
			assert.Equal(t, []byte("0123"), got)

			require.NoError(t, a.Resize(0))
			assert.Zero(t, a.Address())

			st := a.Stats()
			assert.Equal(t, uint64(3), st.Resizes)
			assert.Equal(t, uint64(0), st.ResizeRaces)
		})
	}
}

func TestArena_ResizeInvalid(t *testing.T) {
	a, err := New(8, WithAllocator(HeapAllocator{}))
	require.NoError(t, err)

	require.ErrorIs(t, a.Resize(-5), ErrInvalidCapacity)
	assert.Equal(t, int64(8), a.Capacity())

	a.Free()
	assert.ErrorIs(t, a.Resize(16), ErrUseAfterFree)
}

func TestArena_FreeIdempotent(t *testing.T) {
	m := &metrics.Basic{}
	a, err := New(128, WithAllocator(HeapAllocator{}), WithMetrics(m))
	require.NoError(t, err)

	a.Free()
	a.Free()
	require.NoError(t, a.Close())

	assert.True(t, a.Freed())
	assert.Equal(t, int64(0), a.Capacity())
	assert.Zero(t, a.Address())
	assert.Equal(t, int64(1), m.ArenaFrees.Load())
	assert.Equal(t, int64(0), m.ArenaBytes.Load())
	assert.Equal(t, int64(0), m.ArenaReclaimed.Load())
}

func TestArena_UseAfterFree(t *testing.T) {
	a, err := New(32, WithAllocator(HeapAllocator{}))
	require.NoError(t, err)
	a.Free()

	_, err = a.Bytes(0, 1)
	assert.ErrorIs(t, err, ErrUseAfterFree)
	assert.ErrorIs(t, a.CopyFrom(0, []byte{1}, 0, 1), ErrUseAfterFree)
	assert.ErrorIs(t, a.CopyTo(0, make([]byte, 1), 0, 1), ErrUseAfterFree)
	assert.ErrorIs(t, a.ZeroRange(0, 1), ErrUseAfterFree)
	_, err = Load[int32](a, 0)
	assert.ErrorIs(t, err, ErrUseAfterFree)
	assert.ErrorIs(t, Store(a, 0, int32(1)), ErrUseAfterFree)

	a.Clear()
}

func TestArena_OutOfRange(t *testing.T) {
	a, err := New(16, WithAllocator(HeapAllocator{}))
	require.NoError(t, err)
	defer a.Free()

	buf := make([]byte, 8)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"bytes past end", func() error { _, err := a.Bytes(10, 7); return err }},
		{"negative offset", func() error { _, err := a.Bytes(-1, 1); return err }},
		{"negative length", func() error { _, err := a.Bytes(0, -1); return err }},
		{"copy to short destination", func() error { return a.CopyTo(0, buf, 4, 5) }},
		{"copy from past end", func() error { return a.CopyFrom(12, buf, 0, 8) }},
		{"copy from negative index", func() error { return a.CopyFrom(0, buf, -1, 2) }},
		{"zero range past end", func() error { return a.ZeroRange(8, 9) }},
		{"load past end", func() error { _, err := Load[int64](a, 9); return err }},
		{"store past end", func() error { return Store(a, 15, uint16(1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, err, ErrPrecondition)
		})
	}

	_, err = a.Bytes(16, 0)
	assert.NoError(t, err, "empty range at the end is valid")
}

func TestArena_ZeroRangeAndClear(t *testing.T) {
	a, err := New(8, WithAllocator(HeapAllocator{}))
	require.NoError(t, err)
	defer a.Free()

	require.NoError(t, a.CopyFrom(0, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 0, 8))
	require.NoError(t, a.ZeroRange(2, 3))

	b, err := a.Bytes(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 6, 7, 8}, b)

	a.Clear()
	assert.Equal(t, make([]byte, 8), b, "Bytes aliases the region")
}

func TestLoadStore(t *testing.T) {
	a, err := New(32, WithAllocator(HeapAllocator{}))
	require.NoError(t, err)
	defer a.Free()

	require.NoError(t, Store(a, 0, int64(-42)))
	require.NoError(t, Store(a, 8, float64(3.5)))
	require.NoError(t, Store(a, 17, uint32(0xdeadbeef)), "unaligned")
	require.NoError(t, Store(a, 21, int8(-3)))

	i, err := Load[int64](a, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i)

	f, err := Load[float64](a, 8)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, f, 0)

	u, err := Load[uint32](a, 17)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), u)

	s, err := Load[int8](a, 21)
	require.NoError(t, err)
	assert.Equal(t, int8(-3), s)
}

// freeingAllocator frees target from inside Allocate, the way a second party
// could free an arena while its owner is resizing.
type freeingAllocator struct {
	HeapAllocator
	target *Arena
}

func (f *freeingAllocator) Allocate(size int) (Block, error) {
	if f.target != nil {
		t := f.target
		f.target = nil
		t.Free()
	}
	return f.HeapAllocator.Allocate(size)
}

func TestArena_ResizeRace(t *testing.T) {
	m := &metrics.Basic{}
	var logs bytes.Buffer
	alloc := &freeingAllocator{}

	a, err := New(64,
		WithAllocator(alloc),
		WithMetrics(m),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	require.NoError(t, err)

	alloc.target = a
	err = a.Resize(128)
	require.ErrorIs(t, err, ErrResizeRace)

	st := a.Stats()
	assert.Equal(t, uint64(1), st.ResizeRaces)
	assert.Equal(t, uint64(0), st.Resizes)
	assert.True(t, st.Freed)

	assert.Equal(t, int64(1), m.ArenaFrees.Load(), "region released exactly once")
	assert.Equal(t, int64(1), m.ArenaResizeErrs.Load())
	assert.Contains(t, logs.String(), "resize lost race")

	a.Free()
	assert.Equal(t, int64(1), m.ArenaFrees.Load())
}

func TestArena_MemoryBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})

	a, err := New(1000, WithAllocator(HeapAllocator{}), WithMemoryAcquirer(rc))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rc.MemoryUsage())

	_, err = New(100, WithAllocator(HeapAllocator{}), WithMemoryAcquirer(rc))
	require.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(1000), rc.MemoryUsage())

	require.ErrorIs(t, a.Resize(2000), ErrMemoryLimit)
	assert.Equal(t, int64(1000), a.Capacity())

	require.NoError(t, a.Resize(24))
	assert.Equal(t, int64(24), rc.MemoryUsage())
	assert.Equal(t, int64(1024), rc.MemoryPeak(), "both regions held during the copy")

	a.Free()
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

type failingAllocator struct{}

var errNoMemory = errors.New("no memory")

func (failingAllocator) Allocate(int) (Block, error) { return nil, errNoMemory }

func TestArena_AllocatorFailureReleasesBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})

	_, err := New(512, WithAllocator(failingAllocator{}), WithMemoryAcquirer(rc))
	require.ErrorIs(t, err, errNoMemory)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestWith(t *testing.T) {
	t.Run("frees on return", func(t *testing.T) {
		var kept *Arena
		err := With(64, func(a *Arena) error {
			kept = a
			return Store(a, 0, int32(7))
		}, WithAllocator(HeapAllocator{}))
		require.NoError(t, err)
		assert.True(t, kept.Freed())
	})

	t.Run("propagates error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := With(8, func(*Arena) error { return sentinel }, WithAllocator(HeapAllocator{}))
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("frees on panic", func(t *testing.T) {
		var kept *Arena
		assert.Panics(t, func() {
			_ = With(8, func(a *Arena) error {
				kept = a
				panic("boom")
			}, WithAllocator(HeapAllocator{}))
		})
		assert.True(t, kept.Freed())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		called := false
		err := With(-1, func(*Arena) error { called = true; return nil })
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		assert.False(t, called)
	})
}

func TestArena_LeakBackstop(t *testing.T) {
	m := &metrics.Basic{}
	var logs bytes.Buffer

	func() {
		a, err := New(256,
			WithAllocator(HeapAllocator{}),
			WithMetrics(m),
			WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)
		require.NoError(t, err)
		require.NoError(t, Store(a, 0, int64(1)))
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return m.ArenaReclaimed.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(1), m.ArenaFrees.Load())
	assert.Contains(t, logs.String(), "reclaimed without Free")
}

func allocName(a Allocator) string {
	switch a.(type) {
	case MmapAllocator:
		return "mmap"
	case HeapAllocator:
		return "heap"
	default:
		return "custom"
	}
}

func BenchmarkArena_Resize(b *testing.B) {
	a, err := New(1 << 16)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Free()

	b.ReportAllocs()
	for b.Loop() {
		if err := a.Resize(1 << 17); err != nil {
			b.Fatal(err)
		}
		if err := a.Resize(1 << 16); err != nil {
			b.Fatal(err)
		}
	}
}
