package hashmap

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/primstore/internal/prime"
	"github.com/hupe1980/primstore/metrics"
)

const (
	// DefaultExpectedSize is the number of entries a default table holds
	// before its first growth.
	DefaultExpectedSize = 10

	// DefaultLoadFactor is the default maximum ratio of live entries to slots.
	DefaultLoadFactor = 0.5
)

type options struct {
	capacity         int
	expectedSize     int
	loadFactor       float32
	compactionFactor float32
	compactionSet    bool
	logger           *slog.Logger
	metrics          metrics.Collector
}

// Option configures a Map.
type Option func(*options)

func defaultOptions() options {
	return options{
		capacity:     -1,
		expectedSize: DefaultExpectedSize,
		loadFactor:   DefaultLoadFactor,
	}
}

// WithCapacity sets the initial slot capacity. The actual capacity is the next
// prime >= n. It takes precedence over WithExpectedSize.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithExpectedSize sizes the table so that n entries fit without growth.
func WithExpectedSize(n int) Option {
	return func(o *options) {
		o.expectedSize = n
	}
}

// WithLoadFactor sets the maximum ratio of live entries to slots, in (0, 1].
func WithLoadFactor(f float32) Option {
	return func(o *options) {
		o.loadFactor = f
	}
}

// WithAutoCompactionFactor sets how many removals, as a fraction of capacity,
// trigger an automatic tombstone compaction. Zero disables auto-compaction.
// Defaults to the load factor.
func WithAutoCompactionFactor(f float32) Option {
	return func(o *options) {
		o.compactionFactor = f
		o.compactionSet = true
	}
}

// WithLogger sets the logger used for rehash and compaction events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

func (o *options) validate() error {
	if o.capacity < -1 {
		return fmt.Errorf("%w: capacity=%d", ErrInvalidCapacity, o.capacity)
	}
	if o.expectedSize < 0 {
		return fmt.Errorf("%w: expected size=%d", ErrInvalidCapacity, o.expectedSize)
	}
	if !(o.loadFactor > 0 && o.loadFactor <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidLoadFactor, o.loadFactor)
	}
	if !o.compactionSet {
		o.compactionFactor = o.loadFactor
	}
	if !(o.compactionFactor >= 0) || math.IsInf(float64(o.compactionFactor), 1) {
		return fmt.Errorf("%w: %v", ErrInvalidCompactionFactor, o.compactionFactor)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = metrics.Noop{}
	}
	return nil
}

// initialCapacity resolves the prime slot count for the validated options.
func (o *options) initialCapacity() int {
	if o.capacity >= 0 {
		return prime.Next(o.capacity)
	}
	return capacityFor(o.expectedSize, o.loadFactor)
}

// capacityFor returns the smallest prime capacity that holds n entries at load
// factor lf.
func capacityFor(n int, lf float32) int {
	c := math.Ceil(float64(n) / float64(lf))
	if c >= prime.Max {
		return prime.Max
	}
	return prime.Next(int(c) + 1)
}
