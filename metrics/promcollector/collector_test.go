package promcollector

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/primstore/hashmap"
	"github.com/hupe1980/primstore/offheap"
	"github.com/hupe1980/primstore/snapshot"
)

func newCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := New(prometheus.NewRegistry(), "test")
	require.NoError(t, err)
	return c
}

func TestCollector_Hashmap(t *testing.T) {
	c := newCollector(t)

	m := hashmap.MustNew[int64, int64](hashmap.WithCapacity(11), hashmap.WithMetrics(c))
	for k := range int64(6) {
		m.Put(k, k)
	}
	m.Compact()

	assert.InDelta(t, 1, testutil.ToFloat64(c.rehashes.WithLabelValues("grow")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.rehashes.WithLabelValues("compact")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.rehashCapacity))
}

func TestCollector_Arena(t *testing.T) {
	c := newCollector(t)

	a, err := offheap.New(100, offheap.WithAllocator(offheap.HeapAllocator{}), offheap.WithMetrics(c))
	require.NoError(t, err)
	require.NoError(t, a.Resize(300))
	require.ErrorIs(t, a.Resize(-1), offheap.ErrInvalidCapacity)

	assert.InDelta(t, 1, testutil.ToFloat64(c.arenaAllocs), 0)
	assert.InDelta(t, 300, testutil.ToFloat64(c.arenaBytes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.arenaResizes.WithLabelValues("ok")), 0)

	a.Free()
	assert.InDelta(t, 0, testutil.ToFloat64(c.arenaBytes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.arenaFrees.WithLabelValues("false")), 0)

	c.RecordArenaResize(10, 20, offheap.ErrResizeRace)
	c.RecordArenaResize(10, 20, offheap.ErrMemoryLimit)
	assert.InDelta(t, 1, testutil.ToFloat64(c.arenaResizes.WithLabelValues("race")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.arenaResizes.WithLabelValues("error")), 0)
}

func TestCollector_Snapshot(t *testing.T) {
	c := newCollector(t)
	m := hashmap.MustNew[int32, float64]()
	m.Put(1, 1.5)

	var buf bytes.Buffer
	n, err := snapshot.Write(context.Background(), &buf, m, snapshot.WithMetrics(c))
	require.NoError(t, err)

	_, err = snapshot.Read[int64, float64](context.Background(), bytes.NewReader(buf.Bytes()), snapshot.WithMetrics(c))
	require.ErrorIs(t, err, snapshot.ErrKindMismatch)

	assert.InDelta(t, 1, testutil.ToFloat64(c.snapshotOps.WithLabelValues("write", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.snapshotOps.WithLabelValues("read", "error")), 0)
	assert.InDelta(t, float64(n), testutil.ToFloat64(c.snapshotBytes.WithLabelValues("write")), 0)
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "dup")
	require.NoError(t, err)

	_, err = New(reg, "dup")
	assert.Error(t, err)

	_, err = New(reg, "other")
	assert.NoError(t, err)
}
