package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/fantasybroker/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"BROKER_CONFIG",
		"BROKER_LOG_LEVEL",
		"BROKER_WORKER_COUNT",
		"BROKER_DEFAULT_LIMIT",
		"BROKER_MAX_LIMIT",
		"BROKER_OVERVIEW_TTL_SECONDS",
		"BROKER_RECENT_BUY_DAYS",
		"BROKER_FORM_WINDOW",
		"BROKER_MARKET_WINDOW",
		"BROKER_CLAUSE_HISTORY_WINDOW",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 20)
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BROKER_LOG_LEVEL", "debug")
			_ = os.Setenv("BROKER_WORKER_COUNT", "4")
			_ = os.Setenv("BROKER_DEFAULT_LIMIT", "10")
			_ = os.Setenv("BROKER_FORM_WINDOW", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
				convey.So(cfg.FormWindow, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "broker.yaml")
			yaml := "log_level: warn\nmarket_window: 8\nrecent_buy_days: 14\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("BROKER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.MarketWindow, convey.ShouldEqual, 8)
				convey.So(cfg.RecentBuyDays, convey.ShouldEqual, 14)
			})
		})

		convey.Convey("When env sets an invalid value", func() {
			_ = os.Setenv("BROKER_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
