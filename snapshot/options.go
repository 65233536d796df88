package snapshot

import (
	"log/slog"

	"github.com/hupe1980/primstore/codec"
	"github.com/hupe1980/primstore/hashmap"
	"github.com/hupe1980/primstore/metrics"
	"github.com/hupe1980/primstore/resource"
)

type options struct {
	compression Compression
	codec       codec.Codec
	controller  *resource.Controller
	logger      *slog.Logger
	metrics     metrics.Collector
	mapOpts     []hashmap.Option
}

// Option configures Write, Read, Save and Load.
type Option func(*options)

// WithCompression sets the body compression for writes. Reads take it from
// the header. Defaults to CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec sets the descriptor codec for writes. Reads take it from the
// header. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithController throttles snapshot IO and holds one of the controller's
// background slots for the duration of each operation.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithLogger sets the logger.
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

// WithMapOptions configures the Map that Read creates. Load factor and
// sentinels always come from the snapshot.
func WithMapOptions(opts ...hashmap.Option) Option {
	return func(o *options) {
		o.mapOpts = append(o.mapOpts, opts...)
	}
}

func buildOptions(opts []Option) options {
	o := options{codec: codec.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = metrics.Noop{}
	}
	return o
}
