// Package clause advises on defensive clause investments for owned
// players: when a clause is too close to market value, a rival can take
// the asset cheaply.
package clause

import (
	"fmt"
	"math"

	"github.com/okian/fantasybroker/internal/domain/marketstate"
	"github.com/okian/fantasybroker/pkg/metrics"
)

// Advisory thresholds.
const (
	// vulnerableMarginMax is the margin of safety below which a clause is
	// considered takeable.
	vulnerableMarginMax = 0.40

	// unlockImminentHours flags a locked clause about to open.
	unlockImminentHours = 72

	// degenerateMargin replaces the margin when market value is unusable.
	degenerateMargin = 999

	priorityFloor   = 0.6
	highUrgencyMin  = 0.8
	targetMultiple  = 1.8
	clauseRoundStep = 50_000
)

// Urgency grades how fast the participant should act.
type Urgency string

// Urgency grades.
const (
	UrgencyNone   Urgency = "NONE"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// Input is the owned-player profile the advisor evaluates.
type Input struct {
	MarketValue int64
	ClauseValue int64

	// Vendibility is the market-state level already assigned to the
	// player this call.
	Vendibility marketstate.Level

	Momentum    float64
	PerfScore   float64
	Undervalue  float64
	HoursToOpen float64
	Clausulable bool
	RecentBuy   bool

	AvailableFunds int64
}

// Verdict is the advisor's answer for one owned player.
type Verdict struct {
	ShouldInvest       bool    `json:"should_invest"`
	Urgency            Urgency `json:"urgency"`
	TargetClause       int64   `json:"target_clause"`
	RequiredInvestment int64   `json:"required_investment"`
	Priority           float64 `json:"protection_priority"`
	Advice             string  `json:"advice"`
}

// Advise computes a clause-protection verdict. Pure; safe for
// concurrent use.
func Advise(in Input) Verdict {
	if in.RecentBuy {
		return Verdict{
			Urgency: UrgencyNone,
			Advice:  "Recent acquisition. The clause reflects the purchase; wait before spending more on protection.",
		}
	}

	margin := float64(degenerateMargin)
	if in.MarketValue > 0 {
		margin = float64(in.ClauseValue-in.MarketValue) / float64(in.MarketValue)
	}
	vulnerable := margin < vulnerableMarginMax
	imminent := !in.Clausulable && in.HoursToOpen <= unlockImminentHours

	if !vulnerable && !imminent {
		return Verdict{
			Urgency: UrgencyNone,
			Advice: fmt.Sprintf(
				"Clause is safe: %.0f%% above market value. No investment needed.", margin*100),
		}
	}

	priority := protectionPriority(in, vulnerable)
	if priority < priorityFloor {
		return Verdict{
			Urgency:  UrgencyNone,
			Priority: priority,
			Advice:   "Clause is exposed but the asset is not a protection priority. Accept the risk.",
		}
	}

	target := targetClause(in.MarketValue)
	// Raising a clause costs the owner half the delta.
	required := int64(math.Max(0, math.Ceil(float64(target-in.ClauseValue)/2)))

	if required > in.AvailableFunds {
		metrics.RecordClauseInvestmentAdvised()
		return Verdict{
			ShouldInvest:       true,
			Urgency:            UrgencyMedium,
			TargetClause:       target,
			RequiredInvestment: required,
			Priority:           priority,
			Advice: fmt.Sprintf(
				"Clause is exposed and full protection costs %d, beyond available funds. Invest what you can; every step raises the takeover price.",
				required),
		}
	}

	urgency := UrgencyMedium
	if priority > highUrgencyMin {
		urgency = UrgencyHigh
	}
	metrics.RecordClauseInvestmentAdvised()
	return Verdict{
		ShouldInvest:       true,
		Urgency:            urgency,
		TargetClause:       target,
		RequiredInvestment: required,
		Priority:           priority,
		Advice: fmt.Sprintf(
			"Raise the clause to %d (invest %d). Priority %.2f: the asset is worth defending before a rival moves.",
			target, required, priority),
	}
}

// protectionPriority blends how important the asset is with how
// attractive it looks to rivals. An untouchable asset with a takeable
// clause is always maximum priority.
func protectionPriority(in Input, vulnerable bool) float64 {
	if in.Vendibility <= marketstate.Untouchable && vulnerable {
		return 1.0
	}
	importance := (5 - float64(in.Vendibility)) / 4
	attractiveness := math.Max(0, in.Momentum*0.3+in.Undervalue*0.2+in.PerfScore*0.5)
	return importance*0.6 + attractiveness*0.4
}

// targetClause is 1.8x market value rounded to the nearest 50k step.
func targetClause(marketValue int64) int64 {
	return int64(math.Round(float64(marketValue)*targetMultiple/clauseRoundStep)) * clauseRoundStep
}
