package service

import (
	"context"
	"fmt"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

// ImportExpected replaces the expected-strokes table. Metrics computed
// before the import are refreshed by the next analysis of their user.
func (s *Service) ImportExpected(ctx context.Context, rows []expected.Row) error {
	for i, r := range rows {
		switch {
		case !r.Bucket.Valid():
			return fmt.Errorf("%w: row %d: unknown bucket %q", ErrInvalidExpected, i+1, r.Bucket)
		case !r.Domain.Valid():
			return fmt.Errorf("%w: row %d: unknown domain %q", ErrInvalidExpected, i+1, r.Domain)
		case r.Situation == "":
			return fmt.Errorf("%w: row %d: key is required", ErrInvalidExpected, i+1)
		case r.Expected < 0:
			return fmt.Errorf("%w: row %d: expected must not be negative", ErrInvalidExpected, i+1)
		}
	}

	if err := s.store.ReplaceExpectedRows(ctx, rows); err != nil {
		return fmt.Errorf("replace expected strokes: %w", err)
	}
	t := expected.New(rows)
	s.tableMu.Lock()
	s.table = t
	s.tableChangedAt = s.now()
	s.tableMu.Unlock()

	metrics.UpdateExpectedStrokesRows(t.Len())
	s.logger.Info(ctx, "expected strokes imported", logger.Int("rows", t.Len()))
	return nil
}

// ExpectedRows lists the current expected-strokes table.
func (s *Service) ExpectedRows(ctx context.Context) ([]expected.Row, error) {
	t, err := s.expectedTable(ctx)
	if err != nil {
		return nil, err
	}
	return t.Rows(), nil
}

// expectedTable returns the cached table, loading it from the store once.
func (s *Service) expectedTable(ctx context.Context) (*expected.Table, error) {
	s.tableMu.RLock()
	t := s.table
	s.tableMu.RUnlock()
	if t != nil {
		return t, nil
	}

	rows, err := s.store.ExpectedRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expected strokes: %w", err)
	}
	t = expected.New(rows)

	s.tableMu.Lock()
	if s.table == nil {
		s.table = t
	}
	t = s.table
	s.tableMu.Unlock()

	metrics.UpdateExpectedStrokesRows(t.Len())
	if t.Len() == 0 {
		s.logger.Warn(ctx, "expected strokes table is empty; putting and around metrics stay unset")
	}
	return t, nil
}
