package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fairway/internal/domain/baseline"
	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/leaks"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/skill"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

// skillMinRounds is the number of qualifying rounds a snapshot needs.
const skillMinRounds = 4

// Report is the full analysis of a user's recent rounds.
type Report struct {
	UserID string `json:"user_id"`
	// Metrics holds one entry per round with at least one hole, most recent first.
	Metrics  []model.RoundMetrics `json:"metrics"`
	Leaks    []model.LeakFinding  `json:"leaks"`
	Baseline model.Baseline       `json:"baseline"`
	Skill    model.SkillEstimate  `json:"skill"`
	// Recomputed counts the rounds whose stored metrics were refreshed.
	Recomputed int `json:"recomputed"`
}

// Analyze computes metrics for the user's recent rounds, refreshes stale
// stored metrics and the cached skill snapshot, and ranks leaks.
func (s *Service) Analyze(ctx context.Context, userID string) (Report, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Report{}, ErrInvalidUser
	}
	start := time.Now()
	log := s.logger.Named("analysis")

	rounds, err := s.store.ListRounds(ctx, userID, s.historyLimit)
	if err != nil {
		return Report{}, fmt.Errorf("list rounds of %s: %w", userID, err)
	}
	table, err := s.expectedTable(ctx)
	if err != nil {
		return Report{}, err
	}
	snap, err := s.store.LatestSnapshot(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("load snapshot of %s: %w", userID, err)
	}
	computedAt, err := s.store.MetricsComputedAt(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("load computed times of %s: %w", userID, err)
	}

	est := skill.Estimate(rounds)
	metrics.RecordSkillEstimate(string(est.Confidence))

	now := s.now().UTC()
	if s.snapshotStale(snap, rounds, now) && est.NRounds >= skillMinRounds {
		saved, err := s.store.SaveSnapshot(ctx, userID, est, now)
		if err != nil {
			return Report{}, fmt.Errorf("save snapshot of %s: %w", userID, err)
		}
		metrics.RecordSnapshotWrite()
		log.Debug(ctx, "skill snapshot refreshed",
			logger.String("user_id", userID),
			logger.String("bucket", string(saved.Bucket)),
			logger.Int("n_rounds", saved.NRounds),
		)
		snap = &saved
	}

	played := withHoles(rounds)
	all, err := s.computeAll(ctx, played, snap, table)
	if err != nil {
		return Report{}, err
	}

	s.tableMu.RLock()
	tableChangedAt := s.tableChangedAt
	s.tableMu.RUnlock()

	stale := make([]model.RoundMetrics, 0, len(all))
	for i, m := range all {
		if roundStale(played[i], computedAt, tableChangedAt) {
			stale = append(stale, m)
		}
	}
	if len(stale) > 0 {
		if err := s.store.UpsertRoundMetrics(ctx, stale...); err != nil {
			return Report{}, fmt.Errorf("store metrics of %s: %w", userID, err)
		}
	}

	found := leaks.Rank(all)
	for _, f := range found {
		metrics.RecordLeak(string(f.ID))
	}

	var latestHandicap *float64
	if len(rounds) > 0 {
		latestHandicap = rounds[0].Handicap
	}

	report := Report{
		UserID:     userID,
		Metrics:    all,
		Leaks:      found,
		Baseline:   baseline.Resolve(latestHandicap, snap),
		Skill:      est,
		Recomputed: len(stale),
	}

	took := time.Since(start)
	metrics.RecordAnalysisLatency(float64(took.Milliseconds()))
	log.Info(ctx, "analysis complete",
		logger.String("user_id", userID),
		logger.Int("rounds", len(all)),
		logger.Int("recomputed", len(stale)),
		logger.Int("leaks", len(found)),
		logger.Duration("took", took),
	)
	return report, nil
}

// Skill returns the current skill estimate of a user without touching the
// cached snapshot.
func (s *Service) Skill(ctx context.Context, userID string) (model.SkillEstimate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.SkillEstimate{}, ErrInvalidUser
	}
	rounds, err := s.store.ListRounds(ctx, userID, s.historyLimit)
	if err != nil {
		return model.SkillEstimate{}, fmt.Errorf("list rounds of %s: %w", userID, err)
	}
	est := skill.Estimate(rounds)
	metrics.RecordSkillEstimate(string(est.Confidence))
	return est, nil
}

// computeAll computes the metrics of every round in parallel, keeping the
// order of rounds.
func (s *Service) computeAll(ctx context.Context, rounds []model.Round, snap *model.SkillSnapshot, table *expected.Table) ([]model.RoundMetrics, error) {
	out := make([]model.RoundMetrics, len(rounds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.computeConcurrency)
	for i, r := range rounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out[i] = s.calc.Compute(r, baseline.Resolve(r.Handicap, snap), table)
			metrics.RecordRoundComputed(float64(time.Since(start).Milliseconds()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute rounds: %w", err)
	}
	return out, nil
}

// withHoles returns the rounds that recorded at least one hole.
func withHoles(rounds []model.Round) []model.Round {
	out := make([]model.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.HolesPlayed() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// snapshotStale reports whether the cached snapshot should be replaced.
func (s *Service) snapshotStale(snap *model.SkillSnapshot, rounds []model.Round, now time.Time) bool {
	if snap == nil || now.Sub(snap.ComputedAt) > s.snapshotMaxAge {
		return true
	}
	added := 0
	for _, r := range rounds {
		if r.CreatedAt.After(snap.ComputedAt) {
			added++
		}
	}
	return added >= s.snapshotRoundDelta
}

// roundStale reports whether the stored metrics of r are missing or older
// than the round itself or the expected-strokes table.
func roundStale(r model.Round, computedAt map[string]time.Time, tableChangedAt time.Time) bool {
	at, ok := computedAt[r.ID]
	if !ok {
		return true
	}
	changed := r.UpdatedAt
	if changed.IsZero() {
		changed = r.CreatedAt
	}
	return changed.After(at) || tableChangedAt.After(at)
}
