// Package fixture generates synthetic league snapshots for demos,
// benchmarks and integration tests.
package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fantasybroker/internal/adapters/repository"
	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
)

// Default league dimensions.
const (
	defaultTeams          = 20
	defaultPlayersPerTeam = 11
	defaultParticipants   = 8
	defaultRounds         = 10

	minMarketValue = 500_000
	maxMarketValue = 15_000_000
)

var positions = []string{"GK", "DEF", "DEF", "DEF", "DEF", "MID", "MID", "MID", "MID", "FWD", "FWD"}

// League is a fully populated synthetic league.
type League struct {
	ID             string
	Store          *repository.MemStore
	ParticipantIDs []int64
}

// Generator builds synthetic leagues. The same seed always produces the
// same league.
type Generator struct {
	rng            *rand.Rand
	teams          int
	playersPerTeam int
	participants   int
	rounds         int
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed makes generation deterministic.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTeams sets the number of teams.
func WithTeams(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.teams = n
		}
	}
}

// WithPlayersPerTeam sets the squad size.
func WithPlayersPerTeam(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.playersPerTeam = n
		}
	}
}

// WithParticipants sets how many fantasy managers own rosters.
func WithParticipants(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.participants = n
		}
	}
}

// WithRounds sets how much history each player carries.
func WithRounds(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.rounds = n
		}
	}
}

// New creates a Generator with default configuration.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		teams:          defaultTeams,
		playersPerTeam: defaultPlayersPerTeam,
		participants:   defaultParticipants,
		rounds:         defaultRounds,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a league and loads it into a fresh MemStore.
func (g *Generator) Generate() *League {
	store := repository.NewMemStore()
	league := &League{ID: uuid.New().String(), Store: store}

	for p := 0; p < g.participants; p++ {
		id := int64(p + 1)
		league.ParticipantIDs = append(league.ParticipantIDs, id)
		store.PutFunds(id, int64(g.rng.Intn(20_000_000))+1_000_000)
	}

	// Standings are a straight shuffle of the team ids.
	order := g.rng.Perm(g.teams)
	for t := 0; t < g.teams; t++ {
		teamID := int64(t + 1)
		store.PutTeam(teamID, fmt.Sprintf("Team %02d", t+1), order[t]+1, g.rng.Float64()*8)
	}

	// Next round pairs neighbours in the shuffled order.
	var fixtures []teamcontext.Fixture
	for i := 0; i+1 < g.teams; i += 2 {
		fixtures = append(fixtures, teamcontext.Fixture{
			Round:      g.rounds + 1,
			HomeTeamID: int64(order[i] + 1),
			AwayTeamID: int64(order[i+1] + 1),
		})
	}
	store.PutFixtures(fixtures)

	playerID := int64(0)
	for t := 0; t < g.teams; t++ {
		for s := 0; s < g.playersPerTeam; s++ {
			playerID++
			g.putPlayer(store, league, playerID, int64(t+1), positions[s%len(positions)])
		}
	}

	return league
}

func (g *Generator) putPlayer(store *repository.MemStore, league *League, id, teamID int64, position string) {
	value := int64(g.rng.Intn(maxMarketValue-minMarketValue)) + minMarketValue

	p := model.PlayerSnapshot{
		ID:          id,
		Name:        fmt.Sprintf("Player %03d", id),
		TeamID:      teamID,
		TeamName:    fmt.Sprintf("Team %02d", teamID),
		Position:    position,
		MarketValue: value,
		MarketDelta: fmt.Sprintf("%+d", g.rng.Intn(400_001)-200_000),
		RiskLevel:   g.rng.Intn(6),
		Injured:     g.rng.Float64() < 0.08,
		TitularProb: g.rng.Float64(),
	}

	// Roughly a third of the pool is owned, a third listed, the rest
	// sits in the bank.
	switch g.rng.Intn(3) {
	case 0:
		owner := league.ParticipantIDs[g.rng.Intn(len(league.ParticipantIDs))]
		p.OwnerID = &owner
		p.OwnerClauseValue = value + int64(g.rng.Intn(int(value)))
		p.OwnerClausulable = g.rng.Float64() < 0.5
		store.PutPurchase(id, repository.Purchase{
			Price:           value - int64(g.rng.Intn(int(value/2))),
			At:              time.Now().AddDate(0, 0, -g.rng.Intn(90)),
			ClauseLockUntil: time.Now().Add(time.Duration(g.rng.Intn(14*24)) * time.Hour),
		})
	case 1:
		p.OnMarket = true
	}

	store.PutPlayer(p)

	points := make(model.PointsSeries, g.rounds)
	base := g.rng.Float64() * 8
	for r := 0; r < g.rounds; r++ {
		points[r] = model.RoundPoints{
			Round:  r + 1,
			Points: clampFloat(base+g.rng.NormFloat64()*2, 0, 15),
		}
	}
	store.PutPointsHistory(id, points)

	market := make(model.MarketSeries, g.rounds)
	walk := float64(value)
	for r := g.rounds - 1; r >= 0; r-- {
		market[r] = model.MarketPoint{
			Date:  time.Now().AddDate(0, 0, -(g.rounds - 1 - r)),
			Value: walk,
		}
		walk *= 1 - (g.rng.Float64()*0.1 - 0.05)
	}
	store.PutMarketHistory(id, market)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
