package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/fairway/internal/domain/model"
)

// UpsertRoundMetrics implements Store.UpsertRoundMetrics.
func (s *SQLiteStore) UpsertRoundMetrics(ctx context.Context, ms ...model.RoundMetrics) error {
	if len(ms) == 0 {
		return nil
	}
	defer observe("upsert_round_metrics", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin upsert metrics")
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range ms {
		payload, err := json.Marshal(m)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal metrics %s", m.RoundID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO round_metrics (round_id, user_id, computed_at, esg_total, payload)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(round_id) DO UPDATE SET
				user_id = excluded.user_id,
				computed_at = excluded.computed_at,
				esg_total = excluded.esg_total,
				payload = excluded.payload`,
			m.RoundID, m.UserID, m.ComputedAt.UTC(), nullFloat(m.ESGTotal), string(payload),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert metrics %s", m.RoundID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit upsert metrics")
}

// RoundMetrics implements Store.RoundMetrics.
func (s *SQLiteStore) RoundMetrics(ctx context.Context, roundID string) (model.RoundMetrics, error) {
	defer observe("round_metrics", time.Now())

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM round_metrics WHERE round_id = ?`, roundID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoundMetrics{}, fmt.Errorf("%w: metrics for round %s", ErrNotFound, roundID)
	}
	if err != nil {
		return model.RoundMetrics{}, eris.Wrapf(err, "sqlite: metrics %s", roundID)
	}

	var m model.RoundMetrics
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return model.RoundMetrics{}, eris.Wrapf(err, "sqlite: unmarshal metrics %s", roundID)
	}
	return m, nil
}

// MetricsComputedAt implements Store.MetricsComputedAt.
func (s *SQLiteStore) MetricsComputedAt(ctx context.Context, userID string) (map[string]time.Time, error) {
	defer observe("metrics_computed_at", time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, computed_at FROM round_metrics WHERE user_id = ?`, userID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query computed_at %s", userID)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan computed_at")
		}
		out[id] = at
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate computed_at")
}
