package marketstate_test

import (
	"testing"

	marketstate "github.com/okian/fantasybroker/internal/domain/marketstate"
	. "github.com/smartystreets/goconvey/convey"
)

// healthy is a baseline that triggers no rule and classifies as Growing.
func healthy() marketstate.Facts {
	return marketstate.Facts{
		ROI:             0.1,
		DaysSinceBuy:    120,
		Momentum:        0.6,
		TrendFuture:     0.01,
		PerfScore:       0.55,
		DeclineFromPeak: 0.02,
		RiskLevel:       1,
		ContextFactor:   1.0,
		AcquisitionCost: 5_000_000,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	c := marketstate.New()

	Convey("Given a recent investment with every emergency flag raised", t, func() {
		f := healthy()
		f.DaysSinceBuy = 3
		f.Momentum = 0.1
		f.TrendFuture = -0.5
		f.ContextFactor = 0.5
		f.RiskLevel = 5
		f.DeclineFromPeak = 0.9

		Convey("When classified", func() {
			v := c.Classify(f)

			Convey("Then the protection window overrides everything", func() {
				So(v.Level, ShouldEqual, marketstate.RecentInvestment)
				So(v.Status, ShouldEqual, "Recent Investment")
			})
		})
	})

	Convey("Given an urgent-sell candidate who is also untouchable on paper", t, func() {
		f := healthy()
		f.PerfScore = 0.9
		f.RiskLevel = 4

		Convey("When classified", func() {
			v := c.Classify(f)

			Convey("Then the emergency outranks the franchise protection", func() {
				So(v.Level, ShouldEqual, marketstate.UrgentSell)
			})
		})
	})
}

func TestClassifyUrgentSell(t *testing.T) {
	c := marketstate.New()

	Convey("Given the perfect-storm combination", t, func() {
		f := healthy()
		f.Momentum = 0.2
		f.TrendFuture = -0.15
		f.ContextFactor = 0.9

		So(c.Classify(f).Level, ShouldEqual, marketstate.UrgentSell)

		Convey("Missing any one leg defuses the storm", func() {
			calm := f
			calm.Momentum = 0.35
			So(c.Classify(calm).Level, ShouldNotEqual, marketstate.UrgentSell)

			flat := f
			flat.TrendFuture = -0.05
			So(c.Classify(flat).Level, ShouldNotEqual, marketstate.UrgentSell)

			favored := f
			favored.ContextFactor = 1.0
			So(c.Classify(favored).Level, ShouldNotEqual, marketstate.UrgentSell)
		})
	})

	Convey("Given external risk alone", t, func() {
		f := healthy()
		f.RiskLevel = 4
		So(c.Classify(f).Level, ShouldEqual, marketstate.UrgentSell)
	})
}

func TestClassifyUntouchable(t *testing.T) {
	c := marketstate.New()

	Convey("Given protection reasons in prestige order", t, func() {
		Convey("A franchise player is protected", func() {
			f := healthy()
			f.PerfScore = 0.85
			v := c.Classify(f)
			So(v.Level, ShouldEqual, marketstate.Untouchable)
			So(v.Advice, ShouldContainSubstring, "franchise")
		})

		Convey("A recovering loss is protected", func() {
			f := healthy()
			f.ROI = -0.2
			f.TrendFuture = 0.03
			v := c.Classify(f)
			So(v.Level, ShouldEqual, marketstate.Untouchable)
			So(v.Advice, ShouldContainSubstring, "recovering")
		})

		Convey("A strategic pillar is protected", func() {
			f := healthy()
			f.PerfScore = 0.7
			f.ROI = 0.3
			f.TrendFuture = 0
			v := c.Classify(f)
			So(v.Level, ShouldEqual, marketstate.Untouchable)
			So(v.Advice, ShouldContainSubstring, "pillar")
		})

		Convey("A low-cost pillar is protected", func() {
			f := healthy()
			f.AcquisitionCost = 1_500_000
			f.PerfScore = 0.62
			v := c.Classify(f)
			So(v.Level, ShouldEqual, marketstate.Untouchable)
			So(v.Advice, ShouldContainSubstring, "low-cost")
		})

		Convey("A pillar with no recorded cost still counts as low-cost", func() {
			f := healthy()
			f.AcquisitionCost = 0
			f.PerfScore = 0.62
			v := c.Classify(f)
			So(v.Level, ShouldEqual, marketstate.Untouchable)
			So(v.Advice, ShouldContainSubstring, "low-cost")
		})
	})
}

func TestClassifySellTiers(t *testing.T) {
	c := marketstate.New()

	Convey("Given sell-side conditions", t, func() {
		Convey("A steep decline from peak recommends selling", func() {
			f := healthy()
			f.DeclineFromPeak = 0.2
			So(c.Classify(f).Level, ShouldEqual, marketstate.RecommendedSell)
		})

		Convey("High ROI with a falling trend recommends selling", func() {
			f := healthy()
			f.ROI = 0.5
			f.TrendFuture = -0.06
			So(c.Classify(f).Level, ShouldEqual, marketstate.RecommendedSell)
		})

		Convey("High ROI with weak output and momentum recommends selling", func() {
			f := healthy()
			f.ROI = 0.6
			f.PerfScore = 0.4
			f.Momentum = 0.4
			So(c.Classify(f).Level, ShouldEqual, marketstate.RecommendedSell)
		})

		Convey("Stalled gains are moderately sellable", func() {
			f := healthy()
			f.ROI = 1.2
			f.TrendFuture = 0.01
			f.PerfScore = 0.55
			So(c.Classify(f).Level, ShouldEqual, marketstate.ModeratelySellable)
		})
	})
}

func TestClassifyDefault(t *testing.T) {
	c := marketstate.New()

	Convey("Given a healthy asset", t, func() {
		v := c.Classify(healthy())

		Convey("Then the Growing default applies", func() {
			So(v.Level, ShouldEqual, marketstate.Growing)
			So(v.Status, ShouldEqual, "Growing")
			So(v.Advice, ShouldNotBeEmpty)
		})
	})
}

func TestRecentBuyDaysOption(t *testing.T) {
	Convey("Given a shortened protection window", t, func() {
		c := marketstate.New(marketstate.WithRecentBuyDays(5))

		f := healthy()
		f.DaysSinceBuy = 7

		Convey("Then a 7-day-old buy is no longer protected", func() {
			So(c.Classify(f).Level, ShouldNotEqual, marketstate.RecentInvestment)
		})
	})
}
