package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rotisserie/eris"

	"github.com/okian/fairway/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs all pending migrations up to the latest version.
// Returns nil if the schema is already current.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	m, err := s.newMigrate(ctx)
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return eris.Wrap(err, "sqlite: migrate up")
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (s *SQLiteStore) MigrateDown(ctx context.Context) error {
	m, err := s.newMigrate(ctx)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return eris.Wrap(err, "sqlite: migrate down")
	}
	return nil
}

// MigrateVersion returns the current migration version and dirty state.
// Returns 0, false, nil if no migrations have been applied yet.
func (s *SQLiteStore) MigrateVersion(ctx context.Context) (version uint, dirty bool, err error) {
	m, err := s.newMigrate(ctx)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: migrate version")
	}
	return version, dirty, nil
}

func (s *SQLiteStore) newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open embedded migrations")
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create migrate driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create migrate instance")
	}
	m.Log = &migrateLogger{ctx: ctx, log: s.log}
	return m, nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct {
	ctx context.Context
	log logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Info(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), logger.String("component", "migrate"))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
