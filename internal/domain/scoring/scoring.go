// Package scoring combines per-player signals into one composite
// desirability score per evaluation mode.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/profile"
	"github.com/okian/fantasybroker/internal/domain/stats"
	"github.com/okian/fantasybroker/internal/domain/teamcontext"
)

// Scoring constants.
const (
	// DefaultLimit caps ranked output when the caller does not.
	DefaultLimit = 20

	// defaultValueCeiling normalizes market values into [0,1].
	defaultValueCeiling = 20_000_000

	riskScale = 5.0

	// Availability adjustments (non-sell modes). A banked player cannot
	// actually be acquired right now, hence the penalty.
	onMarketBonus    = 0.20
	clausulableBonus = 0.10
	bankPenalty      = 0.12

	// Market-mode post-adjustments.
	overpricePenaltyRate = 0.1
	overpricePenaltyCap  = 0.4
	volatilityThreshold  = 0.4
	volatilityPenalty    = 0.1

	// Sell mode folds injury into a flat adjustment instead of a weight.
	sellLesionPenalty = 0.05
)

// Input carries everything needed to score one player in one mode.
type Input struct {
	Player      model.PlayerSnapshot
	Ownership   model.OwnershipFacts
	Performance profile.Performance
	Market      profile.Market
	Context     teamcontext.Context

	ParticipantID    int64
	ParticipantMoney int64
}

// Breakdown exposes the component signals behind a score.
type Breakdown struct {
	Momentum      float64 `json:"momentum"`
	TrendFuture   float64 `json:"trend_future"`
	Undervalue    float64 `json:"undervalue_factor"`
	Affordability float64 `json:"affordability"`
	Volatility    float64 `json:"volatility"`
	TitularProb   float64 `json:"titular_prob"`
	ContextFactor float64 `json:"context_factor"`
	RiskLevel     int     `json:"risk_level"`
	PriceToPay    int64   `json:"price_to_pay"`
	Availability  string  `json:"availability"`
}

// Record is one scored player. Ephemeral: recomputed every call, never
// persisted by the engine.
type Record struct {
	PlayerID   int64     `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamName   string    `json:"team_name"`
	Position   string    `json:"position"`
	Mode       Mode      `json:"mode"`
	Score      float64   `json:"score"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Scorer computes composite scores. Stateless; safe for concurrent use.
type Scorer struct {
	valueCeiling float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithValueCeiling sets the market value normalization ceiling.
func WithValueCeiling(ceiling float64) Option {
	return func(s *Scorer) {
		if ceiling > 0 {
			s.valueCeiling = ceiling
		}
	}
}

// New creates a Scorer with default configuration.
func New(opts ...Option) *Scorer {
	s := &Scorer{valueCeiling: defaultValueCeiling}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the composite score for one player in one mode. The
// second return is false when the player is excluded by the mode's
// eligibility rules and must not appear in output.
func (s *Scorer) Score(mode Mode, in Input) (Record, bool) {
	if !eligible(mode, in) {
		return Record{}, false
	}

	w := modeWeights[mode]

	var score float64
	if mode == ModeSell {
		score = s.sellScore(w, in)
	} else {
		score = s.acquireScore(mode, w, in)
	}

	score *= in.Context.Factor

	// A single bad upstream number must never leak NaN into a ranking.
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}

	return Record{
		PlayerID:   in.Player.ID,
		PlayerName: in.Player.Name,
		TeamName:   in.Player.TeamName,
		Position:   in.Player.Position,
		Mode:       mode,
		Score:      score,
		Breakdown: Breakdown{
			Momentum:      in.Performance.Momentum,
			TrendFuture:   in.Market.TrendFuture,
			Undervalue:    stats.UndervalueFactor(in.Performance.AvgPoints, float64(in.Player.MarketValue)),
			Affordability: affordability(in),
			Volatility:    in.Market.Volatility,
			TitularProb:   in.Player.TitularProb,
			ContextFactor: in.Context.Factor,
			RiskLevel:     in.Player.RiskLevel,
			PriceToPay:    in.Ownership.PriceToPay,
			Availability:  in.Ownership.Availability.String(),
		},
	}, true
}

// eligible applies the per-mode exclusion rules.
func eligible(mode Mode, in Input) bool {
	if mode == ModeSell {
		// Sell mode advises on the caller's own assets only.
		return in.Ownership.OwnedBy(in.ParticipantID)
	}

	// Acquisition modes: the caller's own players are not targets, and
	// players locked by another owner are not acquirable.
	if in.Ownership.OwnedBy(in.ParticipantID) {
		return false
	}
	if in.Ownership.Availability == model.OwnedLocked {
		return false
	}
	return true
}

// acquireScore assembles the weighted sum for the overall, performance
// and market modes.
func (s *Scorer) acquireScore(mode Mode, w weights, in Input) float64 {
	riskTerm := (riskScale - float64(in.Player.RiskLevel)) / riskScale
	valueTerm := stats.Normalize(float64(in.Player.MarketValue), 0, s.valueCeiling)

	score := in.Player.TitularProb*w.titular +
		in.Performance.Momentum*w.momentum +
		riskTerm*w.risk +
		valueTerm*w.value +
		in.Player.DeltaSign()*w.delta

	if in.Player.Injured {
		score += w.lesion
	}

	if mode == ModeMarket {
		undervalue := stats.UndervalueFactor(in.Performance.AvgPoints, float64(in.Player.MarketValue))
		score += affordability(in)*w.afford +
			undervalue*w.undervalue +
			in.Market.TrendFuture*w.trendFuture +
			in.Market.Volatility*w.volatility

		// A price beyond the caller's funds is not just unaffordable,
		// it signals an out-of-reach asset class.
		money := float64(in.ParticipantMoney)
		price := float64(in.Ownership.PriceToPay)
		if money > 0 && price > money {
			score -= math.Min(overpricePenaltyRate*(price/money), overpricePenaltyCap)
		}
		if in.Market.Volatility > volatilityThreshold {
			score -= volatilityPenalty
		}
	}

	// A great player who will not play is a bad bet: a hard cliff the
	// linear weights cannot express.
	switch {
	case in.Player.TitularProb < 0.4:
		score -= 0.25
	case in.Player.TitularProb < 0.5:
		score -= 0.18
	case in.Player.TitularProb < 0.6:
		score -= 0.10
	}

	switch in.Ownership.Availability {
	case model.OnMarket:
		score += onMarketBonus
	case model.OwnedClausulable:
		score += clausulableBonus
	case model.Bank:
		score -= bankPenalty
	}

	return score
}

// sellScore assembles the inverted weighted sum for sell mode: decaying,
// volatile, risky assets score high.
func (s *Scorer) sellScore(w weights, in Input) float64 {
	undervalue := stats.UndervalueFactor(in.Performance.AvgPoints, float64(in.Player.MarketValue))
	riskTerm := float64(in.Player.RiskLevel) / riskScale

	score := in.Performance.Momentum*w.momentum +
		in.Market.TrendFuture*w.trendFuture +
		undervalue*w.undervalue +
		in.Market.Volatility*w.volatility +
		in.Player.DeltaSign()*w.delta +
		riskTerm*w.risk

	if in.Player.Injured {
		score -= sellLesionPenalty
	}

	return score
}

// affordability is how much of the caller's funds would remain after
// paying for the player, floored at 0.
func affordability(in Input) float64 {
	money := float64(in.ParticipantMoney)
	if money <= 0 {
		return 0
	}
	return math.Max(0, 1-float64(in.Ownership.PriceToPay)/money)
}

// Rank sorts records by descending score and truncates to limit.
func Rank(records []Record, limit int) []Record {
	if limit <= 0 {
		limit = DefaultLimit
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
