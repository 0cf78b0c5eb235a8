// Package teamcontext computes a per-team multiplicative adjustment
// reflecting current form and the difficulty of the next fixture.
//
// A Resolver carries the cache for exactly one scoring batch: the shared
// upcoming-fixtures snapshot is fetched at most once, per-team results
// are memoized, and nothing is invalidated until the Resolver is
// discarded. A new batch must construct a new Resolver.
package teamcontext

import (
	"context"
	"math"
	"sync"

	"github.com/okian/fantasybroker/internal/domain/stats"
	"github.com/okian/fantasybroker/pkg/logger"
	"github.com/okian/fantasybroker/pkg/metrics"
)

// Factor weights and bounds.
const (
	formWeight    = 0.4
	matchupWeight = 0.45
	homeWeight    = 0.15

	formFloor = 0.6
	formCeil  = 1.4

	homeBonus   = 1.05
	awayPenalty = 0.93
)

// Fixture is one upcoming match in the shared snapshot.
type Fixture struct {
	Round      int
	HomeTeamID int64
	AwayTeamID int64
}

// Source supplies the standings and fixtures the resolver reads.
type Source interface {
	// UpcomingFixtures returns the next-fixtures snapshot. Called at
	// most once per Resolver.
	UpcomingFixtures(ctx context.Context) ([]Fixture, error)

	// TeamPosition returns a team's current league table position.
	TeamPosition(ctx context.Context, teamID int64) (int, error)

	// TeamRecentAvgPoints returns the average recent scoring across the
	// team's roster.
	TeamRecentAvgPoints(ctx context.Context, teamID int64) (float64, error)
}

// Context is the resolved multiplicative adjustment for one team.
type Context struct {
	FormFactor   float64 `json:"form_factor"`
	OpponentDiff float64 `json:"opponent_diff"`
	Home         bool    `json:"is_home"`
	Factor       float64 `json:"context_factor"`
}

// Neutral is the context used when a team has no upcoming fixture or any
// lookup fails. It must never abort a batch.
func Neutral() Context {
	return Context{FormFactor: 1, OpponentDiff: 1, Home: false, Factor: 1}
}

// Resolver memoizes team contexts for the lifetime of one batch.
type Resolver struct {
	source Source
	log    logger.Logger

	mu             sync.Mutex
	fixtures       []Fixture
	fixturesErr    error
	fixturesLoaded bool
	cache          map[int64]Context
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver holding a fresh batch cache.
func NewResolver(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		cache:  make(map[int64]Context),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.Get().Named("teamcontext")
	}

	return r
}

// Resolve returns the context factor for a team. It never fails: any
// upstream error degrades to the neutral context and is logged.
func (r *Resolver) Resolve(ctx context.Context, teamID int64) Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[teamID]; ok {
		metrics.RecordContextCacheHit()
		return c
	}
	metrics.RecordContextCacheMiss()

	c := r.compute(ctx, teamID)
	r.cache[teamID] = c
	return c
}

// compute derives the context for one team. Caller holds the lock.
func (r *Resolver) compute(ctx context.Context, teamID int64) Context {
	fixtures, err := r.loadFixtures(ctx)
	if err != nil {
		metrics.RecordContextFallback()
		r.log.Warn(ctx, "fixtures snapshot unavailable, using neutral context",
			logger.Int64("teamID", teamID),
			logger.Error(err),
		)
		return Neutral()
	}

	var opponentID int64
	home := false
	found := false
	for _, f := range fixtures {
		switch teamID {
		case f.HomeTeamID:
			opponentID, home, found = f.AwayTeamID, true, true
		case f.AwayTeamID:
			opponentID, home, found = f.HomeTeamID, false, true
		}
		if found {
			break
		}
	}
	if !found {
		return Neutral()
	}

	teamPos, err := r.source.TeamPosition(ctx, teamID)
	if err != nil {
		return r.fallback(ctx, teamID, err)
	}
	oppPos, err := r.source.TeamPosition(ctx, opponentID)
	if err != nil {
		return r.fallback(ctx, teamID, err)
	}
	avgPoints, err := r.source.TeamRecentAvgPoints(ctx, teamID)
	if err != nil {
		return r.fallback(ctx, teamID, err)
	}

	form := stats.Clamp(stats.Normalize(avgPoints, 1, 8)*0.8+0.6, formFloor, formCeil)
	matchup := matchupFactor(oppPos - teamPos)
	venue := awayPenalty
	if home {
		venue = homeBonus
	}

	factor := form*formWeight + matchup*matchupWeight + venue*homeWeight

	return Context{
		FormFactor:   form,
		OpponentDiff: matchup,
		Home:         home,
		Factor:       math.Round(factor*1000) / 1000,
	}
}

func (r *Resolver) fallback(ctx context.Context, teamID int64, err error) Context {
	metrics.RecordContextFallback()
	r.log.Warn(ctx, "team context lookup failed, using neutral context",
		logger.Int64("teamID", teamID),
		logger.Error(err),
	)
	return Neutral()
}

// loadFixtures fetches the shared snapshot exactly once per batch.
// A failed fetch is memoized too: a dead feed is hit once, not once per
// team. Caller holds the lock.
func (r *Resolver) loadFixtures(ctx context.Context) ([]Fixture, error) {
	if !r.fixturesLoaded {
		r.fixtures, r.fixturesErr = r.source.UpcomingFixtures(ctx)
		r.fixturesLoaded = true
	}
	return r.fixtures, r.fixturesErr
}

// matchupFactor encodes "beating a weaker team is easier" as discrete
// tiers of the table-position gap. Deliberately coarse: a continuous
// function would over-fit table-position noise.
func matchupFactor(diff int) float64 {
	switch {
	case diff >= 8:
		return 1.15
	case diff >= 4:
		return 1.08
	case diff <= -8:
		return 0.8
	case diff <= -4:
		return 0.9
	default:
		return 1.0
	}
}
