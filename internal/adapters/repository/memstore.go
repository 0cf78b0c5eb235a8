package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
)

// Purchase records how an owned player was acquired.
type Purchase struct {
	Price           int64
	At              time.Time
	ClauseLockUntil time.Time
}

type team struct {
	name      string
	position  int
	recentAvg float64
}

// MemStore is an in-memory Store. It serves tests, the demo harness and
// any caller that loads a league snapshot from a file instead of a
// database.
type MemStore struct {
	mu sync.RWMutex

	players   map[int64]model.PlayerSnapshot
	order     []int64
	points    map[int64]model.PointsSeries
	market    map[int64]model.MarketSeries
	teams     map[int64]team
	fixtures  []teamcontext.Fixture
	funds     map[int64]int64
	purchases map[int64]Purchase
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		players:   make(map[int64]model.PlayerSnapshot),
		points:    make(map[int64]model.PointsSeries),
		market:    make(map[int64]model.MarketSeries),
		teams:     make(map[int64]team),
		funds:     make(map[int64]int64),
		purchases: make(map[int64]Purchase),
	}
}

// PutTeam registers or replaces a team with its standing and recent
// scoring average.
func (s *MemStore) PutTeam(id int64, name string, position int, recentAvg float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[id] = team{name: name, position: position, recentAvg: recentAvg}
}

// PutFixtures replaces the upcoming fixtures snapshot.
func (s *MemStore) PutFixtures(fixtures []teamcontext.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures = append([]teamcontext.Fixture(nil), fixtures...)
}

// PutPlayer registers or replaces a player snapshot.
func (s *MemStore) PutPlayer(p model.PlayerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.players[p.ID] = p
}

// PutPointsHistory replaces a player's round points series.
func (s *MemStore) PutPointsHistory(playerID int64, series model.PointsSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[playerID] = append(model.PointsSeries(nil), series...)
}

// PutMarketHistory replaces a player's market value series.
func (s *MemStore) PutMarketHistory(playerID int64, series model.MarketSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.market[playerID] = append(model.MarketSeries(nil), series...)
}

// PutFunds sets a participant's available money.
func (s *MemStore) PutFunds(participantID, money int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[participantID] = money
}

// PutPurchase records the acquisition facts for an owned player.
func (s *MemStore) PutPurchase(playerID int64, p Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[playerID] = p
}

// Players implements Store. Snapshots are returned in insertion order
// so batches are deterministic.
func (s *MemStore) Players(_ context.Context) ([]model.PlayerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PlayerSnapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out, nil
}

// PointsHistory implements Store.
func (s *MemStore) PointsHistory(_ context.Context, playerID int64, limit int) (model.PointsSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.players[playerID]; !ok {
		return nil, ErrPlayerNotFound
	}
	return s.points[playerID].Tail(limit), nil
}

// MarketHistory implements Store.
func (s *MemStore) MarketHistory(_ context.Context, playerID int64, limit int) (model.MarketSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.players[playerID]; !ok {
		return nil, ErrPlayerNotFound
	}
	return s.market[playerID].Tail(limit), nil
}

// UpcomingFixtures implements Store.
func (s *MemStore) UpcomingFixtures(_ context.Context) ([]teamcontext.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]teamcontext.Fixture(nil), s.fixtures...), nil
}

// TeamPosition implements Store.
func (s *MemStore) TeamPosition(_ context.Context, teamID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return 0, ErrTeamNotFound
	}
	return t.position, nil
}

// TeamRecentAvgPoints implements Store.
func (s *MemStore) TeamRecentAvgPoints(_ context.Context, teamID int64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return 0, ErrTeamNotFound
	}
	return t.recentAvg, nil
}

// ParticipantFunds implements Store.
func (s *MemStore) ParticipantFunds(_ context.Context, participantID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	money, ok := s.funds[participantID]
	if !ok {
		return 0, ErrParticipantNotFound
	}
	return money, nil
}

// OwnedPlayers implements Store.
func (s *MemStore) OwnedPlayers(_ context.Context, participantID int64) ([]OwnedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []OwnedPlayer
	for _, id := range s.order {
		p := s.players[id]
		if p.OwnerID == nil || *p.OwnerID != participantID {
			continue
		}
		buy := s.purchases[id]
		out = append(out, OwnedPlayer{
			Player:          p,
			BuyPrice:        buy.Price,
			BoughtAt:        buy.At,
			ClauseLockUntil: buy.ClauseLockUntil,
		})
	}
	return out, nil
}

var _ Store = (*MemStore)(nil)
