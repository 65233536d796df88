package offheap

import (
	"log/slog"

	"github.com/hupe1980/primstore/metrics"
)

// MemoryAcquirer is a fail-fast memory budget. *resource.Controller
// implements it.
type MemoryAcquirer interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type options struct {
	allocator Allocator
	acquirer  MemoryAcquirer
	logger    *slog.Logger
	metrics   metrics.Collector
}

// Option is a configuration option for Arena.
type Option func(*options)

// WithAllocator sets where regions come from. Defaults to MmapAllocator.
func WithAllocator(alloc Allocator) Option {
	return func(o *options) {
		o.allocator = alloc
	}
}

// WithMemoryAcquirer charges every region against a memory budget.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

// WithLogger sets the logger for resize and reclamation events.
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

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = MmapAllocator{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = metrics.Noop{}
	}
	return o
}
