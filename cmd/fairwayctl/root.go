package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/fairway/internal/adapters/repository"
	app "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/config"
	"github.com/okian/fairway/pkg/logger"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	dbPath   string
	logLevel string
}

// newRootCmd builds the fairwayctl command tree.
func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "fairwayctl",
		Short: "Operate a fairway analytics database from the command line.",
		Long: `fairwayctl manages the fairway SQLite database: schema migrations,
the expected-strokes table, round imports and offline analysis. The load
command drives a running server with synthetic players.

Configuration is read like the server: FAIRWAY_CONFIG names an optional
YAML file and FAIRWAY_* variables override it.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return logger.SetLevelString(g.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite database file (overrides db_path)")
	root.PersistentFlags().StringVarP(&g.logLevel, "loglevel", "l", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newMigrateCmd(g),
		newExpectedCmd(g),
		newRoundsCmd(g),
		newAnalyzeCmd(g),
		newSimulateCmd(g),
		newLoadCmd(),
	)
	return root
}

// env is an opened store and an unstarted service over it.
type env struct {
	store *repository.SQLiteStore
	svc   *app.Service
}

func (e *env) Close() error { return e.store.Close() }

// openStore loads configuration and opens the database, applying
// migrations when migrate is set.
func (g *globals) openStore(ctx context.Context, migrate bool) (*config.Config, *repository.SQLiteStore, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	store, err := repository.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	if migrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
		}
	}
	return cfg, store, nil
}

// open returns a service over a migrated store. The service is not
// started: saved rounds are computed by the next analysis.
func (g *globals) open(ctx context.Context) (*env, error) {
	cfg, store, err := g.openStore(ctx, true)
	if err != nil {
		return nil, err
	}
	svc := app.New(store,
		app.WithComputeConcurrency(cfg.ComputeConcurrency),
		app.WithHistoryLimit(cfg.HistoryLimit),
		app.WithSnapshotPolicy(cfg.SnapshotMaxAge, cfg.SnapshotRoundDelta),
	)
	return &env{store: store, svc: svc}, nil
}
