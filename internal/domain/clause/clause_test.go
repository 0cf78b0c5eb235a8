package clause_test

import (
	"testing"

	clause "github.com/okian/fantasybroker/internal/domain/clause"
	marketstate "github.com/okian/fantasybroker/internal/domain/marketstate"
	. "github.com/smartystreets/goconvey/convey"
)

// exposed is a baseline owned player whose clause sits at market value.
func exposed() clause.Input {
	return clause.Input{
		MarketValue:    10_000_000,
		ClauseValue:    10_000_000,
		Vendibility:    marketstate.Growing,
		Momentum:       0.8,
		PerfScore:      0.9,
		Undervalue:     0.5,
		HoursToOpen:    500,
		Clausulable:    true,
		AvailableFunds: 50_000_000,
	}
}

func TestAdvise(t *testing.T) {
	Convey("Given a recent acquisition", t, func() {
		in := exposed()
		in.RecentBuy = true

		v := clause.Advise(in)

		Convey("Then the advisor waits regardless of exposure", func() {
			So(v.ShouldInvest, ShouldBeFalse)
			So(v.Urgency, ShouldEqual, clause.UrgencyNone)
		})
	})

	Convey("Given a well-protected clause that is already open", t, func() {
		in := exposed()
		in.ClauseValue = 15_000_000

		v := clause.Advise(in)

		Convey("Then no investment is needed", func() {
			// margin = 0.5, above the 0.40 vulnerability line.
			So(v.ShouldInvest, ShouldBeFalse)
			So(v.Urgency, ShouldEqual, clause.UrgencyNone)
		})
	})

	Convey("Given a protected clause about to unlock", t, func() {
		in := exposed()
		in.ClauseValue = 15_000_000
		in.Clausulable = false
		in.HoursToOpen = 48

		v := clause.Advise(in)

		Convey("Then the imminent unlock alone triggers the advisor", func() {
			So(v.ShouldInvest, ShouldBeTrue)
		})
	})

	Convey("Given an exposed clause on a priority asset", t, func() {
		in := exposed()

		v := clause.Advise(in)

		Convey("Then the advisor emits a concrete target and cost", func() {
			So(v.ShouldInvest, ShouldBeTrue)
			// target = round(10M*1.8/50k)*50k = 18M; cost = (18M-10M)/2.
			So(v.TargetClause, ShouldEqual, int64(18_000_000))
			So(v.RequiredInvestment, ShouldEqual, int64(4_000_000))
		})

		Convey("And the target is always a 50k multiple", func() {
			for _, mv := range []int64{1_234_567, 9_999_999, 10_000_001, 777_777} {
				in.MarketValue = mv
				in.ClauseValue = mv
				v := clause.Advise(in)
				So(v.TargetClause%50_000, ShouldEqual, 0)
			}
		})
	})

	Convey("Given a vulnerable untouchable", t, func() {
		in := exposed()
		in.Vendibility = marketstate.Untouchable
		in.Momentum = 0
		in.PerfScore = 0
		in.Undervalue = 0

		v := clause.Advise(in)

		Convey("Then the priority is forced to 1.0 and urgency is HIGH", func() {
			So(v.Priority, ShouldEqual, 1.0)
			So(v.ShouldInvest, ShouldBeTrue)
			So(v.Urgency, ShouldEqual, clause.UrgencyHigh)
		})
	})

	Convey("Given an exposed clause on a low-priority asset", t, func() {
		in := exposed()
		in.Vendibility = marketstate.UrgentSell
		in.Momentum = 0.1
		in.PerfScore = 0.1
		in.Undervalue = 0

		v := clause.Advise(in)

		Convey("Then the advisor accepts the risk", func() {
			// importance = 0; attractiveness = 0.08; priority = 0.032.
			So(v.ShouldInvest, ShouldBeFalse)
			So(v.Priority, ShouldBeLessThan, 0.6)
		})
	})

	Convey("Given insufficient funds for full protection", t, func() {
		in := exposed()
		in.AvailableFunds = 1_000_000

		v := clause.Advise(in)

		Convey("Then a partial effort is advised with medium urgency", func() {
			So(v.ShouldInvest, ShouldBeTrue)
			So(v.Urgency, ShouldEqual, clause.UrgencyMedium)
			So(v.RequiredInvestment, ShouldBeGreaterThan, in.AvailableFunds)
		})
	})

	Convey("Given a zero market value", t, func() {
		in := exposed()
		in.MarketValue = 0
		in.ClauseValue = 0

		v := clause.Advise(in)

		Convey("Then the degenerate margin keeps the clause safe", func() {
			// margin pegged to 999: not vulnerable, and clausulable so not
			// imminent either.
			So(v.ShouldInvest, ShouldBeFalse)
		})
	})
}
