package testrounds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
)

const (
	workerChannelMultiplier = 2
	percentageMultiplier    = 100
	handicapSpread          = 25.0
)

// Run executes a complete load run: health check, synthetic round
// submission, then one analysis per player.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("testrounds")

	log.Info(ctx, "starting fairway load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("roundsPerUser", cfg.RoundsPerUser),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("retries", cfg.Retries),
		logger.Float64("rate", cfg.Rate),
	)

	client := newHTTPClient(cfg.Timeout, cfg.Retries)
	if _, err := client.do(ctx, http.MethodGet, cfg.BaseURL+"/healthz", nil, nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	users, rounds := Population(cfg.Seed, cfg.Users, cfg.RoundsPerUser)
	stats.RoundsGenerated = len(rounds)

	submitRounds(ctx, cfg, rounds, stats)

	if cfg.Settle > 0 {
		log.Info(ctx, "waiting for recomputes to settle", logger.Duration("settle", cfg.Settle))
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(cfg.Settle):
		}
	}

	for _, user := range users {
		var report analysisResponse
		if _, err := client.do(ctx, http.MethodGet, cfg.BaseURL+"/users/"+user+"/analysis", nil, &report); err != nil {
			return stats, fmt.Errorf("analysis of %s failed: %w", user, err)
		}
		if err := verifyReport(user, cfg.RoundsPerUser, report); err != nil {
			return stats, err
		}
		stats.Analyses++
		stats.LeaksFound += len(report.Leaks)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// Population generates players spread across skill levels and their rounds.
func Population(seed uint64, users, roundsPerUser int) ([]string, []model.Round) {
	ids := make([]string, 0, users)
	rounds := make([]model.Round, 0, users*roundsPerUser)
	for i := range users {
		id := fmt.Sprintf("player-%03d", i+1)
		hcp := handicapSpread * float64(i) / float64(max(users-1, 1))
		gen := New(seed+uint64(i), WithHandicap(hcp))
		ids = append(ids, id)
		rounds = append(rounds, gen.Rounds(id, roundsPerUser)...)
	}
	return ids, rounds
}

// verifyReport checks an analysis against what was submitted.
func verifyReport(user string, submitted int, r analysisResponse) error {
	switch {
	case r.UserID != user:
		return fmt.Errorf("analysis of %s returned user %q", user, r.UserID)
	case len(r.Metrics) > submitted:
		return fmt.Errorf("analysis of %s has %d rounds, %d submitted", user, len(r.Metrics), submitted)
	case len(r.Leaks) > 2:
		return fmt.Errorf("analysis of %s ranked %d leaks, at most 2 expected", user, len(r.Leaks))
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, roundsPerSecond float64
	if stats.RoundsSubmitted > 0 {
		acceptRate = float64(stats.RoundsAccepted) / float64(stats.RoundsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.RoundsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("roundsGenerated", stats.RoundsGenerated),
		logger.Int("roundsSubmitted", stats.RoundsSubmitted),
		logger.Int("roundsAccepted", stats.RoundsAccepted),
		logger.Int("roundsFailed", stats.RoundsFailed),
		logger.Int("analyses", stats.Analyses),
		logger.Int("leaksFound", stats.LeaksFound),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("roundsPerSecond", roundsPerSecond),
	)
}
