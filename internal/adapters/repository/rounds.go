package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/fairway/internal/adapters/legacy"
	"github.com/okian/fairway/internal/domain/model"
)

const roundColumns = `id, user_id, course, date, holes_planned, handicap, input_mode, created_at, updated_at`

// SaveRound implements Store.SaveRound.
func (s *SQLiteStore) SaveRound(ctx context.Context, r model.Round) error {
	defer observe("save_round", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save round")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (`+roundColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			course = excluded.course,
			date = excluded.date,
			holes_planned = excluded.holes_planned,
			handicap = excluded.handicap,
			input_mode = excluded.input_mode,
			updated_at = excluded.updated_at`,
		r.ID, r.UserID, r.Course, r.Date.UTC(), r.HolesPlanned, nullFloat(r.Handicap),
		r.InputMode, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert round %s", r.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM holes WHERE round_id = ?`, r.ID); err != nil {
		return eris.Wrapf(err, "sqlite: clear holes %s", r.ID)
	}
	for _, h := range r.Holes {
		tee, shots, putts, err := encodeHole(h)
		if err != nil {
			return eris.Wrapf(err, "sqlite: encode hole %d of %s", h.Number, r.ID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO holes (round_id, hole_num, par, score, tee_routine, stg_shots, putt_cards, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, h.Number, h.Par, h.Score, tee, shots, putts, h.Notes,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert hole %d of %s", h.Number, r.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save round")
}

// GetRound implements Store.GetRound.
func (s *SQLiteStore) GetRound(ctx context.Context, id string) (model.Round, error) {
	defer observe("get_round", time.Now())

	row := s.db.QueryRowContext(ctx, `SELECT `+roundColumns+` FROM rounds WHERE id = ?`, id)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Round{}, fmt.Errorf("%w: round %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Round{}, err
	}

	holes, err := s.holesFor(ctx, `round_id = ?`, id)
	if err != nil {
		return model.Round{}, err
	}
	r.Holes = holes[id]
	return r, nil
}

// ListRounds implements Store.ListRounds.
func (s *SQLiteStore) ListRounds(ctx context.Context, userID string, limit int) ([]model.Round, error) {
	defer observe("list_rounds", time.Now())

	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list rounds %s", userID)
	}
	var out []model.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, eris.Wrap(err, "sqlite: iterate rounds")
	}
	_ = rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	holes, err := s.holesFor(ctx,
		`round_id IN (SELECT id FROM rounds WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ?)`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Holes = holes[out[i].ID]
	}
	return out, nil
}

// DeleteRound implements Store.DeleteRound.
func (s *SQLiteStore) DeleteRound(ctx context.Context, id string) error {
	defer observe("delete_round", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin delete round")
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM round_metrics WHERE round_id = ?`,
		`DELETE FROM holes WHERE round_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return eris.Wrapf(err, "sqlite: delete round %s", id)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete round %s", id)
	}
	if err := checkRowsAffected(res, "round", id); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit delete round")
}

// CountRounds implements Store.CountRounds.
func (s *SQLiteStore) CountRounds(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count rounds")
	}
	return n, nil
}

// holesFor loads holes matching where, grouped by round id.
func (s *SQLiteStore) holesFor(ctx context.Context, where string, args ...any) (map[string][]model.Hole, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, hole_num, par, score, tee_routine, stg_shots, putt_cards, notes
		 FROM holes WHERE `+where+` ORDER BY round_id, hole_num`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query holes")
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]model.Hole)
	for rows.Next() {
		var (
			roundID           string
			h                 model.Hole
			tee, shots, putts sql.NullString
		)
		if err := rows.Scan(&roundID, &h.Number, &h.Par, &h.Score, &tee, &shots, &putts, &h.Notes); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan hole")
		}
		if err := decodeHole(&h, tee, shots, putts); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode hole %d of %s", h.Number, roundID)
		}
		out[roundID] = append(out[roundID], h)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate holes")
}

func scanRound(row scannable) (model.Round, error) {
	var (
		r        model.Round
		handicap sql.NullFloat64
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Course, &r.Date, &r.HolesPlanned, &handicap,
		&r.InputMode, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, eris.Wrap(err, "sqlite: scan round")
	}
	r.Handicap = floatOrNil(handicap)
	return r, nil
}

// encodeHole renders the JSON columns of a hole. Absent dimensions are NULL.
func encodeHole(h model.Hole) (tee, shots, putts sql.NullString, err error) {
	if h.Tee != nil {
		if tee, err = jsonColumn(h.Tee); err != nil {
			return
		}
	}
	if len(h.Shots) > 0 {
		if shots, err = jsonColumn(h.Shots); err != nil {
			return
		}
	}
	if len(h.Putts) > 0 {
		putts, err = jsonColumn(h.Putts)
	}
	return
}

func jsonColumn(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// decodeHole reads the JSON columns through the legacy decoder so rows
// written by older clients load the same way as current ones.
func decodeHole(h *model.Hole, tee, shots, putts sql.NullString) error {
	var err error
	if tee.Valid {
		if h.Tee, err = legacy.DecodeTee([]byte(tee.String)); err != nil {
			return err
		}
	}
	if shots.Valid {
		if h.Shots, err = legacy.DecodeShots([]byte(shots.String)); err != nil {
			return err
		}
	}
	if putts.Valid {
		if h.Putts, err = legacy.DecodePutts([]byte(putts.String)); err != nil {
			return err
		}
	}
	return nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
	}
	return nil
}
