package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/okian/fairway/internal/domain/model"
)

// LatestSnapshot implements Store.LatestSnapshot.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context, userID string) (*model.SkillSnapshot, error) {
	defer observe("latest_snapshot", time.Now())

	var (
		snap             model.SkillSnapshot
		bucket, confText string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, bucket, confidence, skill_index, n_rounds, computed_at
		 FROM skill_snapshots WHERE user_id = ? ORDER BY computed_at DESC LIMIT 1`,
		userID,
	).Scan(&snap.ID, &snap.UserID, &bucket, &confText, &snap.SkillIndex, &snap.NRounds, &snap.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: latest snapshot %s", userID)
	}
	snap.Bucket = model.BaselineBucket(bucket)
	snap.Confidence = model.ParseConfidence(confText)
	return &snap, nil
}

// SaveSnapshot implements Store.SaveSnapshot.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, userID string, est model.SkillEstimate, at time.Time) (model.SkillSnapshot, error) {
	defer observe("save_snapshot", time.Now())

	snap := model.SkillSnapshot{
		ID:         uuid.New().String(),
		UserID:     userID,
		Bucket:     est.Bucket,
		Confidence: est.Confidence,
		SkillIndex: est.SkillIndex,
		NRounds:    est.NRounds,
		ComputedAt: at.UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skill_snapshots (id, user_id, bucket, confidence, skill_index, n_rounds, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.UserID, string(snap.Bucket), string(snap.Confidence), snap.SkillIndex, snap.NRounds, snap.ComputedAt,
	)
	if err != nil {
		return model.SkillSnapshot{}, eris.Wrapf(err, "sqlite: insert snapshot %s", userID)
	}
	return snap, nil
}
