// Package promcollector exports primstore metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := promcollector.New(reg, "myapp")
//	m, err := hashmap.New[int64, float64](hashmap.WithMetrics(c))
package promcollector

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/primstore/metrics"
	"github.com/hupe1980/primstore/offheap"
)

// Collector implements metrics.Collector with Prometheus instruments.
type Collector struct {
	rehashes         *prometheus.CounterVec
	rehashCapacity   prometheus.Histogram
	arenaAllocs      prometheus.Counter
	arenaBytes       prometheus.Gauge
	arenaResizes     *prometheus.CounterVec
	arenaFrees       *prometheus.CounterVec
	snapshotOps      *prometheus.CounterVec
	snapshotBytes    *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
}

var _ metrics.Collector = (*Collector)(nil)

// New creates a Collector and registers its instruments with reg.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		rehashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hashmap",
			Name:      "rehashes_total",
			Help:      "Hash table rebuilds by reason.",
		}, []string{"reason"}),
		rehashCapacity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hashmap",
			Name:      "rehash_capacity_slots",
			Help:      "Slot capacity after a rebuild.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		arenaAllocs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "allocations_total",
			Help:      "Arenas created.",
		}),
		arenaBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "bytes",
			Help:      "Bytes held by live arenas.",
		}),
		arenaResizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "resizes_total",
			Help:      "Arena resize attempts by result (ok, race, error).",
		}, []string{"result"}),
		arenaFrees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "frees_total",
			Help:      "Arena regions released; reclaimed=true counts leaks caught by the runtime cleanup.",
		}, []string{"reclaimed"}),
		snapshotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "operations_total",
			Help:      "Snapshot reads and writes by result.",
		}, []string{"op", "result"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "bytes_total",
			Help:      "Bytes moved by successful snapshot operations.",
		}, []string{"op"}),
		snapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "duration_seconds",
			Help:      "Snapshot operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	for _, col := range []prometheus.Collector{
		c.rehashes, c.rehashCapacity,
		c.arenaAllocs, c.arenaBytes, c.arenaResizes, c.arenaFrees,
		c.snapshotOps, c.snapshotBytes, c.snapshotDuration,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRehash implements metrics.Collector.
func (c *Collector) RecordRehash(_, newCapacity int, reason metrics.RehashReason) {
	c.rehashes.WithLabelValues(string(reason)).Inc()
	c.rehashCapacity.Observe(float64(newCapacity))
}

// RecordArenaAlloc implements metrics.Collector.
func (c *Collector) RecordArenaAlloc(bytes int64) {
	c.arenaAllocs.Inc()
	c.arenaBytes.Add(float64(bytes))
}

// RecordArenaResize implements metrics.Collector.
func (c *Collector) RecordArenaResize(oldBytes, newBytes int64, err error) {
	switch {
	case err == nil:
		c.arenaResizes.WithLabelValues("ok").Inc()
		c.arenaBytes.Add(float64(newBytes - oldBytes))
	case errors.Is(err, offheap.ErrResizeRace):
		c.arenaResizes.WithLabelValues("race").Inc()
	default:
		c.arenaResizes.WithLabelValues("error").Inc()
	}
}

// RecordArenaFree implements metrics.Collector.
func (c *Collector) RecordArenaFree(bytes int64, reclaimed bool) {
	c.arenaFrees.WithLabelValues(strconv.FormatBool(reclaimed)).Inc()
	c.arenaBytes.Sub(float64(bytes))
}

// RecordSnapshot implements metrics.Collector.
func (c *Collector) RecordSnapshot(op metrics.SnapshotOp, bytes int64, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.snapshotOps.WithLabelValues(string(op), result).Inc()
	c.snapshotDuration.WithLabelValues(string(op)).Observe(duration.Seconds())
	if err == nil {
		c.snapshotBytes.WithLabelValues(string(op)).Add(float64(bytes))
	}
}
