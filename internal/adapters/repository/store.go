// Package repository defines the league data store interface and an
// in-memory implementation.
package repository

import (
	"context"
	"time"

	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
)

// OwnedPlayer is a roster row with its acquisition facts. BuyPrice is 0
// and BoughtAt the zero time when the purchase predates record keeping.
type OwnedPlayer struct {
	Player          model.PlayerSnapshot
	BuyPrice        int64
	BoughtAt        time.Time
	ClauseLockUntil time.Time
}

// Store provides read access to the league state. Implementations must
// be safe for concurrent readers; the engine fans player fetches out
// over a worker pool.
type Store interface {
	// Players returns a fresh snapshot of every player in the league.
	Players(ctx context.Context) ([]model.PlayerSnapshot, error)

	// PointsHistory returns up to the last limit rounds for a player,
	// oldest first. Returns ErrPlayerNotFound for unknown ids.
	PointsHistory(ctx context.Context, playerID int64, limit int) (model.PointsSeries, error)

	// MarketHistory returns up to the last limit market samples for a
	// player, oldest first. Returns ErrPlayerNotFound for unknown ids.
	MarketHistory(ctx context.Context, playerID int64, limit int) (model.MarketSeries, error)

	// UpcomingFixtures returns the shared next-round fixture snapshot.
	UpcomingFixtures(ctx context.Context) ([]teamcontext.Fixture, error)

	// TeamPosition returns the league standing of a team, 1 being top.
	TeamPosition(ctx context.Context, teamID int64) (int, error)

	// TeamRecentAvgPoints returns the team's average points over its
	// recent rounds.
	TeamRecentAvgPoints(ctx context.Context, teamID int64) (float64, error)

	// ParticipantFunds returns a participant's available money.
	ParticipantFunds(ctx context.Context, participantID int64) (int64, error)

	// OwnedPlayers returns the participant's roster with buy info.
	OwnedPlayers(ctx context.Context, participantID int64) ([]OwnedPlayer, error)
}

// Store doubles as the fixture/standings source for team context.
var _ teamcontext.Source = (Store)(nil)
