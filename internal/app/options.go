package service

import (
	"time"

	"github.com/okian/fairway/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithComputeConcurrency caps parallel round computations in one analysis.
func WithComputeConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.computeConcurrency = n
		}
	}
}

// WithHistoryLimit sets how many recent rounds an analysis loads.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithSnapshotPolicy sets when a cached skill snapshot is replaced: after
// maxAge, or once roundDelta rounds were added since it was taken.
func WithSnapshotPolicy(maxAge time.Duration, roundDelta int) Option {
	return func(s *Service) {
		if maxAge > 0 {
			s.snapshotMaxAge = maxAge
		}
		if roundDelta > 0 {
			s.snapshotRoundDelta = roundDelta
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
