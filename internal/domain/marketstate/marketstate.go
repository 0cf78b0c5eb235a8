// Package marketstate classifies owned players into one of six
// priority-ordered vendibility levels.
package marketstate

import (
	"fmt"
	"strconv"

	"github.com/okian/fantasybroker/pkg/metrics"
)

// Classification thresholds.
const (
	// DefaultRecentBuyDays is the protection window after an acquisition.
	DefaultRecentBuyDays = 10

	stormMomentumMax = 0.3
	stormTrendMax    = -0.1
	stormContextMax  = 0.95
	externalRiskMin  = 4

	franchisePerfMin = 0.8
	pillarPerfMin    = 0.65
	pillarROIMin     = 0.2
	lowCostMax       = 2_000_000
	lowCostPerfMin   = 0.6

	declineSellMin = 0.15
	profitROIMin   = 0.4
	profitTrendMax = -0.05

	stalledROIMin   = 1.0
	stalledTrendAbs = 0.05
)

// Level is the vendibility priority of an owned player. 0 protects the
// asset, 5 demands an immediate exit.
type Level int

// Vendibility levels.
const (
	RecentInvestment   Level = 0
	Untouchable        Level = 1
	Growing            Level = 2
	ModeratelySellable Level = 3
	RecommendedSell    Level = 4
	UrgentSell         Level = 5
)

var levelNames = map[Level]string{
	RecentInvestment:   "Recent Investment",
	Untouchable:        "Untouchable",
	Growing:            "Growing",
	ModeratelySellable: "Moderately Sellable",
	RecommendedSell:    "Recommended Sell",
	UrgentSell:         "Urgent Sell",
}

// String returns the human-readable status label for the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Facts carries the derived signals the classifier rules consume. All
// fields come from the scoring pipeline; none are fetched here.
type Facts struct {
	// ROI is (market value - buy price) / buy price.
	ROI float64

	// DaysSinceBuy is the age of the acquisition. 999 when unknown.
	DaysSinceBuy int

	Momentum        float64
	TrendFuture     float64
	PerfScore       float64
	DeclineFromPeak float64
	RiskLevel       int
	ContextFactor   float64
	AcquisitionCost int64
}

// Verdict is the classification of one owned player for one call. It is
// fully recomputed next call; nothing is kept.
type Verdict struct {
	Level  Level  `json:"level"`
	Status string `json:"status"`
	Advice string `json:"advice"`
}

// rule pairs a guard with its verdict builder. Rules run in slice order
// and the first match wins; ordering IS the priority contract.
type rule struct {
	match func(c *Classifier, f Facts) bool
	build func(f Facts) Verdict
}

// Classifier assigns vendibility verdicts. Safe for concurrent use.
type Classifier struct {
	recentBuyDays int
	rules         []rule
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithRecentBuyDays overrides the post-acquisition protection window.
func WithRecentBuyDays(days int) Option {
	return func(c *Classifier) {
		if days > 0 {
			c.recentBuyDays = days
		}
	}
}

// New creates a Classifier with default configuration.
func New(opts ...Option) *Classifier {
	c := &Classifier{recentBuyDays: DefaultRecentBuyDays}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = []rule{
		{matchRecentInvestment, buildRecentInvestment},
		{matchUrgentSell, buildUrgentSell},
		{matchUntouchable, buildUntouchable},
		{matchRecommendedSell, buildRecommendedSell},
		{matchModeratelySellable, buildModeratelySellable},
	}
	return c
}

// Classify walks the rule chain and returns the first matching verdict,
// falling through to the Growing default.
func (c *Classifier) Classify(f Facts) Verdict {
	for _, r := range c.rules {
		if r.match(c, f) {
			v := r.build(f)
			metrics.RecordVerdict(strconv.Itoa(int(v.Level)))
			return v
		}
	}
	v := buildGrowing(f)
	metrics.RecordVerdict(strconv.Itoa(int(v.Level)))
	return v
}

// Recent acquisitions are protected from every other rule, including
// emergencies: a decision made days ago should not be reversed by
// transient signal noise.
func matchRecentInvestment(c *Classifier, f Facts) bool {
	return f.DaysSinceBuy <= c.recentBuyDays
}

func buildRecentInvestment(f Facts) Verdict {
	return Verdict{
		Level:  RecentInvestment,
		Status: RecentInvestment.String(),
		Advice: fmt.Sprintf(
			"Bought %d days ago. A fresh bet needs time to mature; early swings are normal. Hold.",
			f.DaysSinceBuy),
	}
}

func matchUrgentSell(_ *Classifier, f Facts) bool {
	perfectStorm := f.Momentum < stormMomentumMax &&
		f.TrendFuture < stormTrendMax &&
		f.ContextFactor < stormContextMax
	return perfectStorm || f.RiskLevel >= externalRiskMin
}

func buildUrgentSell(f Facts) Verdict {
	if f.RiskLevel >= externalRiskMin {
		return Verdict{
			Level:  UrgentSell,
			Status: UrgentSell.String(),
			Advice: fmt.Sprintf(
				"Critical external risk (level %d). Value will drop before the market reacts. Sell now.",
				f.RiskLevel),
		}
	}
	return Verdict{
		Level:  UrgentSell,
		Status: UrgentSell.String(),
		Advice: fmt.Sprintf(
			"Perfect storm: momentum %.0f%%, trend %.1f%% and an unfavorable fixture. Exit immediately.",
			f.Momentum*100, f.TrendFuture*100),
	}
}

func matchUntouchable(_ *Classifier, f Facts) bool {
	return untouchableReason(f) != ""
}

// untouchableReason returns the first protection reason that applies, in
// prestige order, or "" when none does.
func untouchableReason(f Facts) string {
	switch {
	case f.PerfScore > franchisePerfMin:
		return "franchise"
	case f.ROI < 0 && f.TrendFuture > 0.02:
		return "recovering"
	case f.PerfScore > pillarPerfMin && f.ROI > pillarROIMin && f.TrendFuture >= 0:
		return "pillar"
	case f.AcquisitionCost < lowCostMax && f.PerfScore > lowCostPerfMin:
		return "lowcost"
	default:
		return ""
	}
}

func buildUntouchable(f Facts) Verdict {
	var advice string
	switch untouchableReason(f) {
	case "franchise":
		advice = fmt.Sprintf(
			"Do not sell under any circumstances: franchise player scoring %.2f, the pillar of the squad.",
			f.PerfScore)
	case "recovering":
		advice = fmt.Sprintf(
			"Do not sell: recovering a losing buy (ROI %.0f%%) with the trend turning up. Selling now locks in the loss.",
			f.ROI*100)
	case "pillar":
		advice = fmt.Sprintf(
			"Do not sell: strategic pillar combining strong output (%.2f) with %.0f%% ROI and room to grow.",
			f.PerfScore, f.ROI*100)
	default:
		advice = fmt.Sprintf(
			"Do not sell: low-cost pillar performing at %.2f. The roster flexibility is worth more than the sale price.",
			f.PerfScore)
	}
	return Verdict{Level: Untouchable, Status: Untouchable.String(), Advice: advice}
}

func matchRecommendedSell(_ *Classifier, f Facts) bool {
	return f.DeclineFromPeak >= declineSellMin ||
		(f.ROI > profitROIMin && f.TrendFuture < profitTrendMax) ||
		(f.ROI > 0.5 && f.PerfScore < 0.5 && f.Momentum < 0.45)
}

func buildRecommendedSell(f Facts) Verdict {
	return Verdict{
		Level:  RecommendedSell,
		Status: RecommendedSell.String(),
		Advice: fmt.Sprintf(
			"Past its peak: down %.0f%% from the high with ROI at %.0f%% and output at %.2f. Lock in the profit.",
			f.DeclineFromPeak*100, f.ROI*100, f.PerfScore),
	}
}

func matchModeratelySellable(_ *Classifier, f Facts) bool {
	return f.ROI > stalledROIMin &&
		f.TrendFuture < stalledTrendAbs && f.TrendFuture > -stalledTrendAbs
}

func buildModeratelySellable(f Facts) Verdict {
	return Verdict{
		Level:  ModeratelySellable,
		Status: ModeratelySellable.String(),
		Advice: fmt.Sprintf(
			"Great business so far (ROI %.0f%%) but the value has stalled. Selling now frees capital for a better bet.",
			f.ROI*100),
	}
}

func buildGrowing(f Facts) Verdict {
	return Verdict{
		Level:  Growing,
		Status: Growing.String(),
		Advice: fmt.Sprintf(
			"Healthy asset: ROI %.0f%%, output %.2f, no warning signal triggered. Hold and let it grow.",
			f.ROI*100, f.PerfScore),
	}
}
