package record

import (
	"log/slog"

	"github.com/satishbabariya/activerecord/internal/adapters/telemetry"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
)

// Options configures a Session.
type Options struct {
	// Logger receives statement logs at debug level and failures at error level.
	// Default: the process-wide logger
	Logger *slog.Logger

	// Telemetry records statements, errors and connection events.
	// Default: no-op
	Telemetry telemetry.Telemetry

	// Workers bounds the goroutines that run futures. Zero runs each future
	// on its own goroutine.
	// Default: 0
	Workers int

	// PersistConcurrency bounds the inserts one Save runs at once.
	// Default: 1 (input order)
	PersistConcurrency int

	// DefaultPageSize is used when a cursor is navigated before a page was set.
	// Default: 20
	DefaultPageSize int
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		PersistConcurrency: 1,
		DefaultPageSize:    domain.DefaultPageSize,
	}
}

// Option is a function that configures a Session.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTelemetry sets the telemetry adapter.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(o *Options) {
		o.Telemetry = t
	}
}

// WithWorkers bounds the goroutines running futures.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithPersistConcurrency bounds concurrent inserts per Save.
func WithPersistConcurrency(n int) Option {
	return func(o *Options) {
		o.PersistConcurrency = n
	}
}

// WithDefaultPageSize sets the page size used before a page was set.
func WithDefaultPageSize(n int) Option {
	return func(o *Options) {
		o.DefaultPageSize = n
	}
}

// ApplyOptions applies options to o.
func ApplyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
