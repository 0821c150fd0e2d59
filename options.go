package hyperlsh

import (
	"log/slog"

	"github.com/hupe1980/hyperlsh/internal/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	numWorkers       int
	resourceConfig   resource.Config
}

// Option configures MultiIndex constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithNumWorkers sets the size of the worker pool used for per-table
// fan-out. Defaults to GOMAXPROCS when <= 0. Table probes are CPU-bound,
// so values above GOMAXPROCS rarely help.
func WithNumWorkers(n int) Option {
	return func(o *options) {
		o.numWorkers = n
	}
}

// WithMaxConcurrentQueries caps the number of Nearest calls running at
// once. Zero (the default) means unlimited.
func WithMaxConcurrentQueries(n int64) Option {
	return func(o *options) {
		o.resourceConfig.MaxConcurrent = n
	}
}

// WithQueryRateLimit caps the sustained rate of Nearest calls per second.
// Zero (the default) means unlimited.
func WithQueryRateLimit(perSec float64) Option {
	return func(o *options) {
		o.resourceConfig.QueriesPerSec = perSec
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
