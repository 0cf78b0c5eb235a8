// Command broker runs the valuation engine over a league snapshot and
// prints rankings and portfolio insights as JSON. It exists to exercise
// the engine end to end without any serving layer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/fantasybroker/internal/adapters/repository"
	"github.com/okian/fantasybroker/internal/app"
	"github.com/okian/fantasybroker/internal/config"
	"github.com/okian/fantasybroker/internal/domain/scoring"
	"github.com/okian/fantasybroker/internal/fixture"
	"github.com/okian/fantasybroker/pkg/logger"
)

func main() {
	var (
		snapshotPath = flag.String("snapshot", "", "league snapshot YAML; generated when empty")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "generator seed when no snapshot is given")
		participant  = flag.Int64("participant", 1, "requesting participant id")
		mode         = flag.String("mode", "overall", "ranking mode: overall, performance, market, sell")
		limit        = flag.Int("limit", 0, "ranking size; 0 uses the configured default")
		insights     = flag.Bool("insights", true, "also print portfolio insights")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, *snapshotPath, *seed)
	if err != nil {
		log.Error(ctx, "failed to build league store", logger.Error(err))
		return
	}

	parsedMode, err := scoring.ParseMode(*mode)
	if err != nil {
		log.Error(ctx, "invalid mode", logger.String("mode", *mode), logger.Error(err))
		return
	}

	svc := app.New(
		app.WithStore(store),
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithDefaultLimit(cfg.DefaultLimit),
		app.WithMaxLimit(cfg.MaxLimit),
		app.WithFormWindow(cfg.FormWindow),
		app.WithMarketWindow(cfg.MarketWindow),
		app.WithClauseHistoryWindow(cfg.ClauseHistoryWindow),
		app.WithRecentBuyDays(cfg.RecentBuyDays),
		app.WithOverviewTTL(time.Duration(cfg.OverviewTTLSeconds)*time.Second),
	)

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	rankings, err := svc.Rankings(ctx, *participant, parsedMode, *limit)
	if err != nil {
		log.Error(ctx, "ranking batch failed", logger.Error(err))
		return
	}
	if err := out.Encode(map[string]any{"mode": parsedMode, "rankings": rankings}); err != nil {
		log.Error(ctx, "encoding rankings failed", logger.Error(err))
		return
	}

	if !*insights {
		return
	}
	portfolio, err := svc.PortfolioInsights(ctx, *participant)
	if err != nil {
		log.Error(ctx, "insights batch failed", logger.Error(err))
		return
	}
	if err := out.Encode(map[string]any{"participant": *participant, "insights": portfolio}); err != nil {
		log.Error(ctx, "encoding insights failed", logger.Error(err))
	}
}

// buildStore loads the snapshot file when given, otherwise generates a
// synthetic league.
func buildStore(ctx context.Context, path string, seed int64) (repository.Store, error) {
	log := logger.Get()

	if path != "" {
		snap, err := fixture.LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "loaded league snapshot",
			logger.String("path", path), logger.String("league", snap.ID))
		return snap.ToStore(), nil
	}

	league := fixture.New(fixture.WithSeed(seed)).Generate()
	log.Info(ctx, "generated synthetic league",
		logger.String("league", league.ID), logger.Int64("seed", seed))
	return league.Store, nil
}
