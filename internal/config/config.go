// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and FAIRWAY_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// MigrateOnStart applies pending schema migrations when the server boots.
	MigrateOnStart bool `koanf:"migrate_on_start"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory recompute queue.
	QueueSize int `koanf:"queue_size"`

	// ComputeConcurrency caps parallel round computations in one analysis.
	ComputeConcurrency int `koanf:"compute_concurrency"`

	// SnapshotMaxAge is how long a cached skill snapshot stays fresh.
	SnapshotMaxAge time.Duration `koanf:"snapshot_max_age"`

	// SnapshotRoundDelta refreshes the snapshot once this many rounds were
	// added since it was taken.
	SnapshotRoundDelta int `koanf:"snapshot_round_delta"`

	// ExpectedStrokesFile optionally seeds the expected-strokes table (YAML).
	ExpectedStrokesFile string `koanf:"expected_strokes_file"`

	// HistoryLimit caps the rounds loaded for one analysis.
	HistoryLimit int `koanf:"history_limit"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DBPath:             "fairway.db",
		MigrateOnStart:     true,
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          1024,
		ComputeConcurrency: runtime.NumCPU(),
		SnapshotMaxAge:     24 * time.Hour,
		SnapshotRoundDelta: 4,
		HistoryLimit:       50,
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.ComputeConcurrency < 1:
		return fmt.Errorf("%w: compute_concurrency must be positive, got %d", ErrInvalidConfig, c.ComputeConcurrency)
	case c.SnapshotMaxAge <= 0:
		return fmt.Errorf("%w: snapshot_max_age must be positive, got %s", ErrInvalidConfig, c.SnapshotMaxAge)
	case c.SnapshotRoundDelta < 1:
		return fmt.Errorf("%w: snapshot_round_delta must be positive, got %d", ErrInvalidConfig, c.SnapshotRoundDelta)
	case c.HistoryLimit < 1:
		return fmt.Errorf("%w: history_limit must be positive, got %d", ErrInvalidConfig, c.HistoryLimit)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
