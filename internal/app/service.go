// Package service wires the analytics core to storage and the recompute
// workers. It implements the dependencies required by the HTTP API and the
// command line tool.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/fairway/internal/adapters/mq/queue"
	"github.com/okian/fairway/internal/adapters/mq/worker"
	"github.com/okian/fairway/internal/adapters/repository"
	"github.com/okian/fairway/internal/domain/dedupe"
	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/scoring"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

const (
	defaultQueueSize          = 1024
	defaultHistoryLimit       = 50
	defaultSnapshotMaxAge     = 24 * time.Hour
	defaultSnapshotRoundDelta = 4
)

// Service runs round bookkeeping and analysis for every user.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	calc    *scoring.Calculator
	pending dedupe.Deduper
	jobs    *queue.InMemoryQueue
	pool    *worker.Pool

	tableMu        sync.RWMutex
	table          *expected.Table
	tableChangedAt time.Time

	workerCount        int
	queueSize          int
	computeConcurrency int
	historyLimit       int
	snapshotMaxAge     time.Duration
	snapshotRoundDelta int

	started bool
	now     func() time.Time
	logger  logger.Logger
}

// New constructs a Service over store with default configuration. The
// service owns no store lifecycle; callers close the store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:              store,
		workerCount:        runtime.NumCPU(),
		queueSize:          defaultQueueSize,
		computeConcurrency: runtime.NumCPU(),
		historyLimit:       defaultHistoryLimit,
		snapshotMaxAge:     defaultSnapshotMaxAge,
		snapshotRoundDelta: defaultSnapshotRoundDelta,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.calc = scoring.NewCalculator(scoring.WithClock(s.now))
	s.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.queueSize))
	return s
}

// Start launches the recompute workers. Without Start, saved rounds are
// still stored and get computed by the next analysis.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analytics service...")

	if _, err := s.expectedTable(ctx); err != nil {
		return err
	}

	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("computeConcurrency", s.computeConcurrency),
	)
	return nil
}

// Stop drains the recompute queue and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping analytics service...")
	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "analytics service stopped")
	return nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":            s.started,
		"workerCount":        s.workerCount,
		"queueSize":          s.queueSize,
		"computeConcurrency": s.computeConcurrency,
		"historyLimit":       s.historyLimit,
		"pendingRecomputes":  s.pending.Size(),
	}

	if n, err := s.store.CountRounds(ctx); err == nil {
		stats["totalRounds"] = n
	} else {
		s.logger.Warn(ctx, "failed to count rounds", logger.Error(err))
	}

	s.tableMu.RLock()
	stats["expectedRows"] = s.table.Len()
	s.tableMu.RUnlock()

	if s.started {
		queueLen := s.jobs.Len(ctx)
		stats["queueLength"] = queueLen
		stats["processed"] = s.pool.Processed()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

// enqueue schedules a background recompute of roundID unless one is
// already pending. It reports whether a job is pending afterwards.
func (s *Service) enqueue(ctx context.Context, roundID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false
	}
	if s.pending.SeenAndRecord(ctx, roundID) {
		s.logger.Debug(ctx, "recompute already pending", logger.String("round_id", roundID))
		return true
	}
	if !s.jobs.Enqueue(ctx, queue.Job{RoundID: roundID, UserID: userID, EnqueuedAt: s.now()}) {
		s.pending.Unrecord(ctx, roundID)
		metrics.RecordErrorByComponent("queue", "queue_full")
		s.logger.Warn(ctx, "recompute queue full, round stays stale until next analysis",
			logger.String("round_id", roundID),
		)
		return false
	}
	return true
}
