package repository

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
)

// ExpectedRows implements Store.ExpectedRows.
func (s *SQLiteStore) ExpectedRows(ctx context.Context) ([]expected.Row, error) {
	defer observe("expected_rows", time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT bucket, domain, key, expected FROM expected_strokes ORDER BY bucket, domain, key`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query expected strokes")
	}
	defer func() { _ = rows.Close() }()

	var out []expected.Row
	for rows.Next() {
		var (
			r              expected.Row
			bucket, domain string
		)
		if err := rows.Scan(&bucket, &domain, &r.Situation, &r.Expected); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan expected strokes")
		}
		r.Bucket = model.BaselineBucket(bucket)
		r.Domain = model.Domain(domain)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate expected strokes")
}

// ReplaceExpectedRows implements Store.ReplaceExpectedRows.
func (s *SQLiteStore) ReplaceExpectedRows(ctx context.Context, rows []expected.Row) error {
	defer observe("replace_expected_rows", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace expected strokes")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expected_strokes`); err != nil {
		return eris.Wrap(err, "sqlite: clear expected strokes")
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expected_strokes (bucket, domain, key, expected) VALUES (?, ?, ?, ?)
		 ON CONFLICT(bucket, domain, key) DO UPDATE SET expected = excluded.expected`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare expected strokes insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, string(r.Bucket), string(r.Domain), r.Situation, r.Expected); err != nil {
			return eris.Wrapf(err, "sqlite: insert expected %s|%s|%s", r.Bucket, r.Domain, r.Situation)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit expected strokes")
}
