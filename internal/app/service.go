// Package app orchestrates the valuation engine: it fans per-player
// work over a bounded pool, assembles rankings and portfolio insights,
// and isolates individual player failures from the batch.
package app

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/okian/fantasybroker/internal/adapters/repository"
	"github.com/okian/fantasybroker/internal/domain/clause"
	"github.com/okian/fantasybroker/internal/domain/exitplan"
	"github.com/okian/fantasybroker/internal/domain/marketstate"
	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/profile"
	"github.com/okian/fantasybroker/internal/domain/scoring"
	"github.com/okian/fantasybroker/internal/domain/stats"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
	"github.com/okian/fantasybroker/pkg/logger"
	"github.com/okian/fantasybroker/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultMaxLimit            = 100
	defaultOverviewTTL         = 60 * time.Second
	defaultClauseHistoryWindow = 30
	unknownBuyAgeDays          = 999
	insightsBatchLabel         = "insights"
	perfMomentumWeight         = 0.40
	perfTrendWeight            = 0.30
	perfTitularWeight          = 0.30
)

// Service is the engine facade. Construct once, invoke per request.
type Service struct {
	store      repository.Store
	scorer     *scoring.Scorer
	classifier *marketstate.Classifier

	workerCount         int
	defaultLimit        int
	maxLimit            int
	formWindow          int
	marketWindow        int
	clauseHistoryWindow int
	recentBuyDays       int

	overview *overviewCache
	logger   logger.Logger
	now      func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the league data store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithWorkerCount bounds the per-batch fan-out.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDefaultLimit sets the ranking size when the caller passes none.
func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// WithMaxLimit caps the ranking size a caller may request.
func WithMaxLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// WithFormWindow sets how many recent rounds feed the form profile.
func WithFormWindow(rounds int) Option {
	return func(s *Service) {
		if rounds > 0 {
			s.formWindow = rounds
		}
	}
}

// WithMarketWindow sets how many recent samples feed the market profile.
func WithMarketWindow(samples int) Option {
	return func(s *Service) {
		if samples > 0 {
			s.marketWindow = samples
		}
	}
}

// WithClauseHistoryWindow sets how many market samples feed the
// portfolio advisory view. Deliberately deeper than the volatility
// window so an older peak still registers.
func WithClauseHistoryWindow(samples int) Option {
	return func(s *Service) {
		if samples > 0 {
			s.clauseHistoryWindow = samples
		}
	}
}

// WithRecentBuyDays sets the post-acquisition protection window.
func WithRecentBuyDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.recentBuyDays = days
		}
	}
}

// WithOverviewTTL sets the insights cache lifetime.
func WithOverviewTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.overview = newOverviewCache(ttl)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 2,
		defaultLimit:        scoring.DefaultLimit,
		maxLimit:            defaultMaxLimit,
		formWindow:          profile.DefaultFormWindow,
		marketWindow:        profile.DefaultMarketWindow,
		clauseHistoryWindow: defaultClauseHistoryWindow,
		recentBuyDays:       marketstate.DefaultRecentBuyDays,
		overview:            newOverviewCache(defaultOverviewTTL),
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}
	s.scorer = scoring.New()
	s.classifier = marketstate.New(marketstate.WithRecentBuyDays(s.recentBuyDays))
	return s
}

// Rankings scores every eligible player for the participant in the
// given mode and returns the top entries by descending score.
func (s *Service) Rankings(ctx context.Context, participantID int64, mode scoring.Mode, limit int) ([]scoring.Record, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	start := s.now()

	players, err := s.store.Players(ctx)
	if err != nil {
		s.logger.Error(ctx, "player snapshot fetch failed", logger.Error(err))
		return nil, ErrStoreFailed
	}

	money := s.participantMoney(ctx, participantID)
	resolver := teamcontext.NewResolver(s.store, teamcontext.WithLogger(s.logger))

	records := fanOut(ctx, s.workerCount, players, func(ctx context.Context, p model.PlayerSnapshot) (scoring.Record, bool) {
		defer s.recoverPlayer(ctx, p.ID)

		perf, market, ok := s.profiles(ctx, p.ID)
		if !ok {
			return scoring.Record{}, false
		}

		rec, ok := s.scorer.Score(mode, scoring.Input{
			Player:           p,
			Ownership:        model.DeriveOwnership(p),
			Performance:      perf,
			Market:           market,
			Context:          resolver.Resolve(ctx, p.TeamID),
			ParticipantID:    participantID,
			ParticipantMoney: money,
		})
		if ok {
			metrics.RecordPlayerScored()
		}
		return rec, ok
	})

	ranked := scoring.Rank(records, s.clampLimit(limit))
	metrics.RecordBatch(string(mode), s.now().Sub(start).Seconds())
	return ranked, nil
}

// InsightMetrics is the raw numeric picture behind a player's verdicts.
type InsightMetrics struct {
	MarketValue     int64   `json:"market_value"`
	BuyPrice        int64   `json:"buy_price"`
	ROI             float64 `json:"roi"`
	DaysSinceBuy    int     `json:"days_since_buy"`
	AvgPoints       float64 `json:"avg_points"`
	Momentum        float64 `json:"momentum"`
	TrendFuture     float64 `json:"trend_future"`
	Volatility      float64 `json:"volatility"`
	PerfScore       float64 `json:"perf_score"`
	DeclineFromPeak float64 `json:"decline_from_peak"`
	ContextFactor   float64 `json:"context_factor"`
}

// PlayerInsight is the per-owned-player advisory record.
type PlayerInsight struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
	Position   string `json:"position"`

	Metrics       InsightMetrics      `json:"metrics"`
	MarketState   marketstate.Verdict `json:"market_state"`
	ClauseAdvice  clause.Verdict      `json:"clause_strategy"`
	ExitPlan      exitplan.Plan       `json:"exit_plan"`
	MarketHistory model.MarketSeries  `json:"market_history"`
}

// PortfolioInsights builds the full advisory view over the
// participant's roster. Responses are cached for a short TTL.
func (s *Service) PortfolioInsights(ctx context.Context, participantID int64) ([]PlayerInsight, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if cached, ok := s.overview.get(participantID); ok {
		return cached, nil
	}
	start := s.now()

	owned, err := s.store.OwnedPlayers(ctx, participantID)
	if err != nil {
		s.logger.Error(ctx, "roster fetch failed", logger.Error(err))
		return nil, ErrStoreFailed
	}

	money := s.participantMoney(ctx, participantID)
	resolver := teamcontext.NewResolver(s.store, teamcontext.WithLogger(s.logger))

	insights := fanOut(ctx, s.workerCount, owned, func(ctx context.Context, op repository.OwnedPlayer) (PlayerInsight, bool) {
		defer s.recoverPlayer(ctx, op.Player.ID)
		return s.playerInsight(ctx, op, money, resolver)
	})

	s.overview.put(participantID, insights)
	metrics.RecordBatch(insightsBatchLabel, s.now().Sub(start).Seconds())
	return insights, nil
}

// playerInsight derives metrics and all three verdicts for one owned
// player. Any fetch failure drops just this player.
func (s *Service) playerInsight(ctx context.Context, op repository.OwnedPlayer, money int64, resolver *teamcontext.Resolver) (PlayerInsight, bool) {
	p := op.Player

	perf, market, ok := s.profiles(ctx, p.ID)
	if !ok {
		return PlayerInsight{}, false
	}
	// The advisory view reads deeper history than the volatility
	// profile: a peak six samples ago must still count as the peak.
	history, err := s.store.MarketHistory(ctx, p.ID, s.clauseHistoryWindow)
	if err != nil {
		s.dropPlayer(ctx, p.ID, err)
		return PlayerInsight{}, false
	}

	tctx := resolver.Resolve(ctx, p.TeamID)

	buyPrice := op.BuyPrice
	if buyPrice <= 0 {
		// Pre-record-keeping roster entry: estimate the buy between the
		// clause and today's market value.
		buyPrice = (p.OwnerClauseValue + p.MarketValue) / 2
	}

	roi := 0.0
	if buyPrice > 0 {
		roi = float64(p.MarketValue-buyPrice) / float64(buyPrice)
	}

	daysSinceBuy := unknownBuyAgeDays
	if !op.BoughtAt.IsZero() {
		daysSinceBuy = int(s.now().Sub(op.BoughtAt).Hours() / 24)
	}

	perfScore := stats.Clamp(
		perf.Momentum*perfMomentumWeight+
			market.TrendFuture*perfTrendWeight+
			p.TitularProb*perfTitularWeight,
		0, 1)

	m := InsightMetrics{
		MarketValue:     p.MarketValue,
		BuyPrice:        buyPrice,
		ROI:             roi,
		DaysSinceBuy:    daysSinceBuy,
		AvgPoints:       perf.AvgPoints,
		Momentum:        perf.Momentum,
		TrendFuture:     market.TrendFuture,
		Volatility:      market.Volatility,
		PerfScore:       perfScore,
		DeclineFromPeak: declineFromPeak(history, float64(p.MarketValue)),
		ContextFactor:   tctx.Factor,
	}

	verdict := s.classifier.Classify(marketstate.Facts{
		ROI:             m.ROI,
		DaysSinceBuy:    m.DaysSinceBuy,
		Momentum:        m.Momentum,
		TrendFuture:     m.TrendFuture,
		PerfScore:       m.PerfScore,
		DeclineFromPeak: m.DeclineFromPeak,
		RiskLevel:       p.RiskLevel,
		ContextFactor:   m.ContextFactor,
		AcquisitionCost: buyPrice,
	})

	clauseVerdict := clause.Advise(clause.Input{
		MarketValue:    p.MarketValue,
		ClauseValue:    p.OwnerClauseValue,
		Vendibility:    verdict.Level,
		Momentum:       m.Momentum,
		PerfScore:      m.PerfScore,
		Undervalue:     stats.UndervalueFactor(m.AvgPoints, float64(p.MarketValue)),
		HoursToOpen:    s.hoursToOpen(op.ClauseLockUntil),
		Clausulable:    p.OwnerClausulable,
		RecentBuy:      m.DaysSinceBuy <= s.recentBuyDays,
		AvailableFunds: money,
	})

	plan := exitplan.Build(exitplan.Input{
		Level:           verdict.Level,
		ROI:             m.ROI,
		TrendFuture:     m.TrendFuture,
		Momentum:        m.Momentum,
		PerfScore:       m.PerfScore,
		DeclineFromPeak: m.DeclineFromPeak,
		RiskLevel:       p.RiskLevel,
		MarketValue:     p.MarketValue,
		BuyPrice:        buyPrice,
		Position:        p.Position,
	})

	return PlayerInsight{
		PlayerID:      p.ID,
		PlayerName:    p.Name,
		TeamName:      p.TeamName,
		Position:      p.Position,
		Metrics:       m,
		MarketState:   verdict,
		ClauseAdvice:  clauseVerdict,
		ExitPlan:      plan,
		MarketHistory: history,
	}, true
}

// profiles fetches and condenses both history series for a player.
func (s *Service) profiles(ctx context.Context, playerID int64) (profile.Performance, profile.Market, bool) {
	points, err := s.store.PointsHistory(ctx, playerID, s.formWindow)
	if err != nil {
		s.dropPlayer(ctx, playerID, err)
		return profile.Performance{}, profile.Market{}, false
	}
	market, err := s.store.MarketHistory(ctx, playerID, s.marketWindow)
	if err != nil {
		s.dropPlayer(ctx, playerID, err)
		return profile.Performance{}, profile.Market{}, false
	}
	return profile.BuildPerformance(points, s.formWindow), profile.BuildMarket(market, s.marketWindow), true
}

func (s *Service) participantMoney(ctx context.Context, participantID int64) int64 {
	money, err := s.store.ParticipantFunds(ctx, participantID)
	if err != nil {
		// Unknown funds degrade to zero affordability, not a failed batch.
		s.logger.Warn(ctx, "participant funds unavailable",
			logger.Int64("participant", participantID), logger.Error(err))
		return 0
	}
	return money
}

func (s *Service) hoursToOpen(lockUntil time.Time) float64 {
	if lockUntil.IsZero() {
		return 0
	}
	return math.Max(0, lockUntil.Sub(s.now()).Hours())
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *Service) dropPlayer(ctx context.Context, playerID int64, err error) {
	metrics.RecordPlayerDropped()
	s.logger.Warn(ctx, "player dropped from batch",
		logger.Int64("player", playerID), logger.Error(err))
}

// recoverPlayer keeps one player's panic from killing the batch.
func (s *Service) recoverPlayer(ctx context.Context, playerID int64) {
	if r := recover(); r != nil {
		metrics.RecordPlayerDropped()
		s.logger.Error(ctx, "player computation panicked",
			logger.Int64("player", playerID), logger.Any("panic", r))
	}
}

// declineFromPeak is the fractional drop from the historical high to
// the current value, 0 when the history never exceeded it.
func declineFromPeak(history model.MarketSeries, current float64) float64 {
	peak := current
	for _, p := range history {
		if p.Value > peak {
			peak = p.Value
		}
	}
	if peak <= 0 {
		return 0
	}
	return stats.Clamp((peak-current)/peak, 0, 1)
}
