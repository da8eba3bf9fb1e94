package worker

import (
	"time"

	"github.com/okian/fairway/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithMetricsUpdateInterval sets how often throughput metrics are published.
func WithMetricsUpdateInterval(interval time.Duration) PoolOption {
	return func(p *Pool) {
		if interval > 0 {
			p.metricsUpdateInterval = interval
		}
	}
}
