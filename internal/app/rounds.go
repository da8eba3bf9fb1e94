package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fairway/internal/adapters/repository"
	"github.com/okian/fairway/internal/domain/baseline"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

const (
	minPar = 3
	maxPar = 5
)

// SaveRound validates and stores a round, then schedules its metrics for
// recomputation. A round without ID gets a fresh one; re-saving an existing
// round keeps its creation time.
func (s *Service) SaveRound(ctx context.Context, round model.Round) (model.Round, error) {
	round.UserID = strings.TrimSpace(round.UserID)
	if err := validateRound(round); err != nil {
		return model.Round{}, err
	}

	now := s.now().UTC()
	if round.ID == "" {
		round.ID = uuid.NewString()
		round.CreatedAt = now
	} else {
		prev, err := s.store.GetRound(ctx, round.ID)
		switch {
		case err == nil:
			if prev.UserID != round.UserID {
				return model.Round{}, fmt.Errorf("%w: round %s belongs to another user", ErrInvalidRound, round.ID)
			}
			round.CreatedAt = prev.CreatedAt
		case errors.Is(err, repository.ErrNotFound):
			round.CreatedAt = now
		default:
			return model.Round{}, fmt.Errorf("load round %s: %w", round.ID, err)
		}
	}
	round.UpdatedAt = now

	if err := s.store.SaveRound(ctx, round); err != nil {
		return model.Round{}, fmt.Errorf("save round %s: %w", round.ID, err)
	}
	metrics.RecordRoundSaved()

	queued := s.enqueue(ctx, round.ID, round.UserID)
	s.logger.Debug(ctx, "round saved",
		logger.String("round_id", round.ID),
		logger.String("user_id", round.UserID),
		logger.Int("holes", round.HolesPlayed()),
		logger.Bool("queued", queued),
	)
	return round, nil
}

// Round returns a stored round.
func (s *Service) Round(ctx context.Context, id string) (model.Round, error) {
	return s.store.GetRound(ctx, id)
}

// DeleteRound removes a round together with its metrics.
func (s *Service) DeleteRound(ctx context.Context, id string) error {
	s.pending.Unrecord(ctx, id)
	return s.store.DeleteRound(ctx, id)
}

// RoundMetrics returns the stored metrics of a round.
func (s *Service) RoundMetrics(ctx context.Context, roundID string) (model.RoundMetrics, error) {
	return s.store.RoundMetrics(ctx, roundID)
}

// Recompute refreshes the stored metrics of one round against the user's
// current baseline. Rounds without holes have nothing to compute.
func (s *Service) Recompute(ctx context.Context, roundID string) error {
	s.pending.Unrecord(ctx, roundID)
	start := time.Now()

	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		// Deleted while queued.
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load round %s: %w", roundID, err)
	}
	if round.HolesPlayed() == 0 {
		return nil
	}

	table, err := s.expectedTable(ctx)
	if err != nil {
		return err
	}
	snap, err := s.store.LatestSnapshot(ctx, round.UserID)
	if err != nil {
		return fmt.Errorf("load snapshot for %s: %w", round.UserID, err)
	}

	m := s.calc.Compute(round, baseline.Resolve(round.Handicap, snap), table)
	if err := s.store.UpsertRoundMetrics(ctx, m); err != nil {
		return fmt.Errorf("store metrics of %s: %w", roundID, err)
	}
	metrics.RecordRoundComputed(float64(time.Since(start).Milliseconds()))
	return nil
}

func validateRound(r model.Round) error {
	switch {
	case r.UserID == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidRound)
	case r.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidRound)
	case r.HolesPlanned < 1:
		return fmt.Errorf("%w: holes_planned must be positive, got %d", ErrInvalidRound, r.HolesPlanned)
	case len(r.Holes) > r.HolesPlanned:
		return fmt.Errorf("%w: %d holes recorded but %d planned", ErrInvalidRound, len(r.Holes), r.HolesPlanned)
	case r.Handicap != nil && *r.Handicap < 0:
		return fmt.Errorf("%w: handicap must not be negative", ErrInvalidRound)
	}

	seen := make(map[int]struct{}, len(r.Holes))
	for _, h := range r.Holes {
		if err := validateHole(h); err != nil {
			return fmt.Errorf("%w: hole %d: %w", ErrInvalidRound, h.Number, err)
		}
		if _, dup := seen[h.Number]; dup {
			return fmt.Errorf("%w: hole %d recorded twice", ErrInvalidRound, h.Number)
		}
		seen[h.Number] = struct{}{}
	}
	return nil
}

func validateHole(h model.Hole) error {
	switch {
	case h.Number < 1:
		return fmt.Errorf("number must be positive")
	case h.Par < minPar || h.Par > maxPar:
		return fmt.Errorf("par must be between %d and %d, got %d", minPar, maxPar, h.Par)
	case h.Score < 1:
		return fmt.Errorf("score must be positive, got %d", h.Score)
	}
	if h.Tee != nil && h.Tee.Landing != nil && !h.Tee.Landing.Valid() {
		return fmt.Errorf("unknown tee landing %q", *h.Tee.Landing)
	}
	for i, shot := range h.Shots {
		if !shot.Intent.Valid() {
			return fmt.Errorf("shot %d: unknown intent %q", i+1, shot.Intent)
		}
		if shot.Leave != nil && !shot.Leave.Valid() {
			return fmt.Errorf("shot %d: unknown leave bucket %q", i+1, *shot.Leave)
		}
	}
	for i, putt := range h.Putts {
		if putt.Bucket != nil && !putt.Bucket.Valid() {
			return fmt.Errorf("putt %d: unknown distance bucket %q", i+1, *putt.Bucket)
		}
	}
	return nil
}
