package fixture

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/fantasybroker/internal/adapters/repository"
	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
)

// Snapshot is the file form of a league, loadable without a database.
type Snapshot struct {
	ID           string                `yaml:"id"`
	Teams        []TeamRow             `yaml:"teams"`
	Fixtures     []FixtureRow          `yaml:"fixtures"`
	Players      []PlayerRow           `yaml:"players"`
	Participants []ParticipantRow      `yaml:"participants"`
	Points       map[int64][]PointRow  `yaml:"points"`
	Market       map[int64][]MarketRow `yaml:"market"`
}

// TeamRow is one team with its standing.
type TeamRow struct {
	ID        int64   `yaml:"id"`
	Name      string  `yaml:"name"`
	Position  int     `yaml:"position"`
	RecentAvg float64 `yaml:"recent_avg"`
}

// FixtureRow is one upcoming match.
type FixtureRow struct {
	Round int   `yaml:"round"`
	Home  int64 `yaml:"home"`
	Away  int64 `yaml:"away"`
}

// PlayerRow is one player with availability and purchase facts.
type PlayerRow struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	TeamID      int64   `yaml:"team_id"`
	Position    string  `yaml:"position"`
	MarketValue int64   `yaml:"market_value"`
	MarketDelta string  `yaml:"market_delta"`
	RiskLevel   int     `yaml:"risk_level"`
	Injured     bool    `yaml:"injured"`
	TitularProb float64 `yaml:"titular_prob"`

	OnMarket    bool   `yaml:"on_market"`
	OwnerID     *int64 `yaml:"owner_id,omitempty"`
	ClauseValue int64  `yaml:"clause_value,omitempty"`
	Clausulable bool   `yaml:"clausulable,omitempty"`

	BuyPrice        int64      `yaml:"buy_price,omitempty"`
	BoughtAt        *time.Time `yaml:"bought_at,omitempty"`
	ClauseLockUntil *time.Time `yaml:"clause_lock_until,omitempty"`
}

// ParticipantRow is one fantasy manager.
type ParticipantRow struct {
	ID    int64 `yaml:"id"`
	Money int64 `yaml:"money"`
}

// PointRow is one scored round.
type PointRow struct {
	Round  int     `yaml:"round"`
	Points float64 `yaml:"points"`
}

// MarketRow is one dated market sample.
type MarketRow struct {
	Date  time.Time `yaml:"date"`
	Value float64   `yaml:"value"`
}

// LoadSnapshot reads a YAML league snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot to disk as YAML.
func (s *Snapshot) Save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// ToStore loads the snapshot into a fresh MemStore.
func (s *Snapshot) ToStore() *repository.MemStore {
	store := repository.NewMemStore()

	for _, t := range s.Teams {
		store.PutTeam(t.ID, t.Name, t.Position, t.RecentAvg)
	}

	fixtures := make([]teamcontext.Fixture, len(s.Fixtures))
	for i, f := range s.Fixtures {
		fixtures[i] = teamcontext.Fixture{Round: f.Round, HomeTeamID: f.Home, AwayTeamID: f.Away}
	}
	store.PutFixtures(fixtures)

	teamNames := make(map[int64]string, len(s.Teams))
	for _, t := range s.Teams {
		teamNames[t.ID] = t.Name
	}

	for _, p := range s.Players {
		store.PutPlayer(model.PlayerSnapshot{
			ID:               p.ID,
			Name:             p.Name,
			TeamID:           p.TeamID,
			TeamName:         teamNames[p.TeamID],
			Position:         p.Position,
			MarketValue:      p.MarketValue,
			MarketDelta:      p.MarketDelta,
			RiskLevel:        p.RiskLevel,
			Injured:          p.Injured,
			TitularProb:      p.TitularProb,
			OnMarket:         p.OnMarket,
			OwnerID:          p.OwnerID,
			OwnerClauseValue: p.ClauseValue,
			OwnerClausulable: p.Clausulable,
		})
		if p.OwnerID != nil {
			purchase := repository.Purchase{Price: p.BuyPrice}
			if p.BoughtAt != nil {
				purchase.At = *p.BoughtAt
			}
			if p.ClauseLockUntil != nil {
				purchase.ClauseLockUntil = *p.ClauseLockUntil
			}
			store.PutPurchase(p.ID, purchase)
		}
	}

	for _, pt := range s.Participants {
		store.PutFunds(pt.ID, pt.Money)
	}

	for id, rows := range s.Points {
		series := make(model.PointsSeries, len(rows))
		for i, r := range rows {
			series[i] = model.RoundPoints{Round: r.Round, Points: r.Points}
		}
		store.PutPointsHistory(id, series)
	}

	for id, rows := range s.Market {
		series := make(model.MarketSeries, len(rows))
		for i, r := range rows {
			series[i] = model.MarketPoint{Date: r.Date, Value: r.Value}
		}
		store.PutMarketHistory(id, series)
	}

	return store
}
