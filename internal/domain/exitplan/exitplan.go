// Package exitplan derives the tactical side of a sell decision: when
// to exit, how liquid the asset is, and what price to ask.
package exitplan

import (
	"fmt"
	"math"

	"github.com/okian/fantasybroker/internal/domain/marketstate"
)

// Liquidity model constants.
const (
	// avgRivalBudget approximates what other participants can spend.
	avgRivalBudget = 15_000_000

	affordabilityWeight = 0.4
	demandWeight        = 0.3
	performanceWeight   = 0.2
	riskWeight          = 0.1

	veryLiquidMin = 0.75
	liquidMin     = 0.55
	tightMin      = 0.35
)

// Urgency grades how fast the owner should act on an exit.
type Urgency string

// Exit urgencies, from most patient to most pressed.
const (
	UrgencyHold        Urgency = "HOLD"
	UrgencyOpportunity Urgency = "OPPORTUNITY"
	UrgencySoon        Urgency = "SOON"
	UrgencyUrgent      Urgency = "URGENT"
)

// LiquidityTier buckets the liquidity score.
type LiquidityTier string

// Liquidity tiers.
const (
	VeryLiquid LiquidityTier = "very_liquid"
	Liquid     LiquidityTier = "liquid"
	Tight      LiquidityTier = "tight"
	Illiquid   LiquidityTier = "illiquid"
)

// Input carries the owned-player signals the exit planner consumes.
type Input struct {
	Level marketstate.Level

	ROI             float64
	TrendFuture     float64
	Momentum        float64
	PerfScore       float64
	DeclineFromPeak float64
	RiskLevel       int

	MarketValue int64
	BuyPrice    int64
	Position    string
}

// Timing is the when/how of an exit.
type Timing struct {
	Urgency   Urgency `json:"urgency"`
	Window    string  `json:"window"`
	Action    string  `json:"action"`
	Reasoning string  `json:"reasoning"`
}

// Liquidity is how easily the asset can be sold.
type Liquidity struct {
	Score     float64       `json:"score"`
	Tier      LiquidityTier `json:"tier"`
	Reasoning string        `json:"reasoning"`
}

// SellPrice is the suggested ask. DiscountPct is negative for premiums.
type SellPrice struct {
	Suggested int64  `json:"suggested_price"`
	Discount  int    `json:"discount_pct"`
	Reasoning string `json:"reasoning"`
}

// Plan is the full exit recommendation for one owned player.
type Plan struct {
	Timing    Timing    `json:"timing"`
	Liquidity Liquidity `json:"liquidity"`
	SellPrice SellPrice `json:"sell_price"`
}

// Build assembles the exit plan. Pure; safe for concurrent use.
func Build(in Input) Plan {
	timing := exitTiming(in)
	liquidity := liquidityScore(in)
	return Plan{
		Timing:    timing,
		Liquidity: liquidity,
		SellPrice: suggestedPrice(in, timing, liquidity),
	}
}

// exitTiming maps the vendibility level to an urgency, with the two
// sell levels refined by how fast the value is moving.
func exitTiming(in Input) Timing {
	switch in.Level {
	case marketstate.RecentInvestment:
		return Timing{
			Urgency:   UrgencyHold,
			Window:    "Hold indefinitely",
			Action:    "Do not sell",
			Reasoning: "Recent acquisition that needs time to mature.",
		}

	case marketstate.Untouchable:
		reason := "Strategic pillar of high value."
		if in.PerfScore > 0.8 {
			reason = "Franchise player, the core of the squad."
		} else if in.ROI < 0 && in.TrendFuture > 0.02 {
			reason = "Recovering a losing buy on an upward trend."
		}
		return Timing{
			Urgency:   UrgencyHold,
			Window:    "Hold indefinitely",
			Action:    "Do not sell",
			Reasoning: reason,
		}

	case marketstate.UrgentSell:
		reason := "Toxic asset; exit before further losses."
		if in.RiskLevel >= 4 {
			reason = "Critical external risk; value will drop fast."
		} else if in.TrendFuture < -0.08 && in.Momentum < 0.3 {
			reason = "Full collapse: negative trend with dismal form."
		}
		return Timing{
			Urgency:   UrgencyUrgent,
			Window:    "24-48 hours",
			Action:    "Sell immediately",
			Reasoning: reason,
		}

	case marketstate.RecommendedSell:
		switch {
		case in.DeclineFromPeak >= 0.5 || in.TrendFuture < -0.06:
			return Timing{
				Urgency:   UrgencyUrgent,
				Window:    "24-48 hours",
				Action:    "Sell immediately",
				Reasoning: "Accelerating decline; act before more value is lost.",
			}
		case in.DeclineFromPeak >= 0.3 && in.TrendFuture < -0.04:
			return Timing{
				Urgency:   UrgencySoon,
				Window:    "3-7 days",
				Action:    "Sell this week",
				Reasoning: fmt.Sprintf("Down %.0f%% from peak and still falling.", in.DeclineFromPeak*100),
			}
		case in.DeclineFromPeak >= 0.3 && math.Abs(in.TrendFuture) < 0.03:
			return Timing{
				Urgency:   UrgencyOpportunity,
				Window:    "Flexible (1-3 weeks)",
				Action:    "Find a good buyer",
				Reasoning: fmt.Sprintf("Down %.0f%% but stabilized; pick the moment.", in.DeclineFromPeak*100),
			}
		case in.ROI > 0.30:
			return Timing{
				Urgency:   UrgencyOpportunity,
				Window:    "Flexible (2-4 weeks)",
				Action:    "Open to offers",
				Reasoning: fmt.Sprintf("ROI of %.0f%% still solid; no rush but stay alert.", in.ROI*100),
			}
		default:
			return Timing{
				Urgency:   UrgencySoon,
				Window:    "1-2 weeks",
				Action:    "Plan the sale",
				Reasoning: "Ceiling signals; lock in the profit soon.",
			}
		}

	case marketstate.ModeratelySellable:
		reason := "Financial opportunity; sell if a good price appears."
		if in.ROI > 0.3 {
			reason = fmt.Sprintf("Solid ROI of %.0f%%; wait for the best offer.", in.ROI*100)
		} else if math.Abs(in.TrendFuture) < 0.03 {
			reason = "Stable value; no rush but open to negotiation."
		}
		return Timing{
			Urgency:   UrgencyOpportunity,
			Window:    "Flexible (when a buyer shows up)",
			Action:    "Open to offers",
			Reasoning: reason,
		}

	default:
		reason := "Stable asset with positive ROI; hold."
		switch {
		case in.TrendFuture > 0.05:
			reason = "Growing strongly; let it keep climbing."
		case in.TrendFuture > 0.01 && in.Momentum > 0.65:
			reason = "Positive trend with excellent form; active growth phase."
		case in.PerfScore > 0.70:
			reason = "High performer; hold for the sporting value."
		}
		return Timing{
			Urgency:   UrgencyHold,
			Window:    "Hold indefinitely",
			Action:    "Do not sell",
			Reasoning: reason,
		}
	}
}

var positionDemand = map[string]float64{
	"GK":  0.4,
	"DEF": 0.7,
	"MID": 0.8,
	"FWD": 0.9,
}

// liquidityScore estimates how sellable the asset is, blending how many
// rivals can afford it with the demand for its position.
func liquidityScore(in Input) Liquidity {
	affordability := math.Max(0, 1-float64(in.MarketValue)/avgRivalBudget)

	demand, ok := positionDemand[in.Position]
	if !ok {
		demand = 0.6
	}

	riskFactor := 1 - float64(in.RiskLevel)/5*0.5

	score := affordability*affordabilityWeight +
		demand*demandWeight +
		in.PerfScore*performanceWeight +
		riskFactor*riskWeight

	switch {
	case score > veryLiquidMin:
		return Liquidity{score, VeryLiquid, "High demand, affordable price and strong output."}
	case score > liquidMin:
		return Liquidity{score, Liquid, "Moderate demand with a balanced profile."}
	case score > tightMin:
		return Liquidity{score, Tight, "Limited market; selling takes patience."}
	default:
		return Liquidity{score, Illiquid, "Very hard to sell: expensive or underperforming."}
	}
}

// suggestedPrice prices the exit for the given urgency. Held assets get
// a deterrence premium; urgent exits get a loss-cutting discount.
func suggestedPrice(in Input, t Timing, liq Liquidity) SellPrice {
	mv := float64(in.MarketValue)

	if t.Urgency == UrgencyHold || in.Level <= marketstate.Growing {
		premium := holdPremium(in)
		return SellPrice{
			Suggested: int64(math.Round(mv * (1 + premium))),
			Discount:  -int(math.Round(premium * 100)),
			Reasoning: fmt.Sprintf("Deterrence price at +%.0f%%; only sell if an offer beats the upside.", premium*100),
		}
	}

	switch t.Urgency {
	case UrgencyUrgent:
		if in.TrendFuture < -0.08 {
			pct := 0.10
			if liq.Tier == Illiquid {
				pct = 0.15
			}
			return SellPrice{
				Suggested: int64(math.Round(mv * (1 - pct))),
				Discount:  int(math.Round(pct * 100)),
				Reasoning: fmt.Sprintf("Loss cut: sell now at -%.0f%% before it falls further.", pct*100),
			}
		}
		if in.ROI < 0 {
			return SellPrice{
				Suggested: in.MarketValue,
				Discount:  0,
				Reasoning: "Sell at market value to minimize the loss.",
			}
		}
		pct := 0.05
		if liq.Tier == Illiquid {
			pct = 0.08
		}
		return SellPrice{
			Suggested: int64(math.Round(mv * (1 - pct))),
			Discount:  int(math.Round(pct * 100)),
			Reasoning: fmt.Sprintf("Urgency discount of -%.0f%% for a 24-48h sale.", pct*100),
		}

	case UrgencySoon:
		if in.ROI > 0.20 {
			pct := 0.02
			if liq.Tier == Illiquid {
				pct = 0.04
			}
			return SellPrice{
				Suggested: int64(math.Round(mv * (1 - pct))),
				Discount:  int(math.Round(pct * 100)),
				Reasoning: fmt.Sprintf("Small discount of -%.0f%% to close within two weeks.", pct*100),
			}
		}
		if in.ROI > 0 {
			return SellPrice{
				Suggested: in.MarketValue,
				Discount:  0,
				Reasoning: "Market price; ROI is low but positive.",
			}
		}
		// Cap the acceptable loss at 8% below the buy price.
		floor := int64(math.Round(float64(in.BuyPrice) * 0.92))
		suggested := in.MarketValue
		if floor > suggested {
			suggested = floor
		}
		return SellPrice{
			Suggested: suggested,
			Discount:  0,
			Reasoning: "Minimize losses: never more than 8% below the buy price.",
		}

	default: // OPPORTUNITY
		switch {
		case in.ROI > 1.0:
			pct := 0.03
			if liq.Tier == VeryLiquid {
				pct = 0.08
			} else if liq.Tier == Liquid {
				pct = 0.05
			}
			return SellPrice{
				Suggested: int64(math.Round(mv * (1 + pct))),
				Discount:  -int(math.Round(pct * 100)),
				Reasoning: fmt.Sprintf("Exceptional ROI (%.0f%%): ask +%.0f%% and wait.", in.ROI*100, pct*100),
			}
		case in.ROI > 0.40:
			pct := 0.02
			if liq.Tier == VeryLiquid {
				pct = 0.04
			}
			return SellPrice{
				Suggested: int64(math.Round(mv * (1 + pct))),
				Discount:  -int(math.Round(pct * 100)),
				Reasoning: fmt.Sprintf("Good ROI (%.0f%%) justifies a +%.0f%% premium.", in.ROI*100, pct*100),
			}
		default:
			return SellPrice{
				Suggested: in.MarketValue,
				Discount:  0,
				Reasoning: "Fair market price; no rush to close.",
			}
		}
	}
}

// holdPremium builds the deterrence premium from growth, performance
// and how much profit is already banked. Never below 10%.
func holdPremium(in Input) float64 {
	var growth float64
	switch {
	case in.TrendFuture > 0.12 && in.Momentum > 0.70:
		growth = 0.35
	case in.TrendFuture > 0.10 || (in.Momentum > 0.65 && in.TrendFuture > 0.05):
		growth = 0.30
	case in.TrendFuture > 0.07 || in.Momentum > 0.60:
		growth = 0.25
	case in.TrendFuture > 0.04 || in.Momentum > 0.55:
		growth = 0.20
	case in.TrendFuture > 0.02 || in.Momentum > 0.50:
		growth = 0.15
	default:
		growth = 0.10
	}

	var performance float64
	switch {
	case in.PerfScore > 0.75:
		performance = 0.15
	case in.PerfScore > 0.65:
		performance = 0.10
	case in.PerfScore > 0.55:
		performance = 0.05
	}

	var roiAdj float64
	switch {
	case in.ROI > 0.60:
		roiAdj = -0.10
	case in.ROI > 0.40:
		roiAdj = -0.05
	}

	return math.Max(0.10, growth+performance+roiAdj)
}
