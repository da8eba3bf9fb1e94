// Package repository defines the round store interface and its SQLite
// implementation.
package repository

import (
	"context"
	"time"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
)

// Store provides read/write access to rounds and derived analytics.
type Store interface {
	// SaveRound inserts or replaces a round together with its holes.
	SaveRound(ctx context.Context, round model.Round) error
	// GetRound returns a round with holes ordered by number.
	// Returns ErrNotFound if the round is unknown.
	GetRound(ctx context.Context, id string) (model.Round, error)
	// ListRounds returns a user's rounds, most recent first.
	ListRounds(ctx context.Context, userID string, limit int) ([]model.Round, error)
	// DeleteRound removes a round, its holes and its cached metrics.
	DeleteRound(ctx context.Context, id string) error
	// CountRounds returns the number of stored rounds.
	CountRounds(ctx context.Context) (int, error)

	// ExpectedRows returns every expected-strokes row.
	ExpectedRows(ctx context.Context) ([]expected.Row, error)
	// ReplaceExpectedRows swaps the whole expected-strokes table.
	ReplaceExpectedRows(ctx context.Context, rows []expected.Row) error

	// LatestSnapshot returns the newest skill snapshot for a user, or nil
	// when none was taken yet.
	LatestSnapshot(ctx context.Context, userID string) (*model.SkillSnapshot, error)
	// SaveSnapshot persists a skill estimate taken at the given time.
	SaveSnapshot(ctx context.Context, userID string, est model.SkillEstimate, at time.Time) (model.SkillSnapshot, error)

	// UpsertRoundMetrics stores computed metrics, replacing older ones.
	UpsertRoundMetrics(ctx context.Context, metrics ...model.RoundMetrics) error
	// RoundMetrics returns the stored metrics of a round.
	// Returns ErrNotFound if the round was never computed.
	RoundMetrics(ctx context.Context, roundID string) (model.RoundMetrics, error)
	// MetricsComputedAt maps each computed round of a user to its compute time.
	MetricsComputedAt(ctx context.Context, userID string) (map[string]time.Time, error)

	Close() error
}
