package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/fairway/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DBPath, convey.ShouldEqual, "fairway.db")
			convey.So(cfg.MigrateOnStart, convey.ShouldBeTrue)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.SnapshotMaxAge, convey.ShouldEqual, 24*time.Hour)
			convey.So(cfg.SnapshotRoundDelta, convey.ShouldEqual, 4)
			convey.So(cfg.HistoryLimit, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad field", t, func() {
		cases := map[string]func(*config.Config){
			"addr":                 func(c *config.Config) { c.Addr = "" },
			"db_path":              func(c *config.Config) { c.DBPath = "" },
			"worker_count":         func(c *config.Config) { c.WorkerCount = 0 },
			"queue_size":           func(c *config.Config) { c.QueueSize = -1 },
			"compute_concurrency":  func(c *config.Config) { c.ComputeConcurrency = 0 },
			"snapshot_max_age":     func(c *config.Config) { c.SnapshotMaxAge = 0 },
			"snapshot_round_delta": func(c *config.Config) { c.SnapshotRoundDelta = 0 },
			"history_limit":        func(c *config.Config) { c.HistoryLimit = 0 },
			"log_format":           func(c *config.Config) { c.LogFormat = "xml" },
		}

		for field, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, field)
		}
	})
}
