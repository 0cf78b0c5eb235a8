package profile_test

import (
	"testing"

	model "github.com/okian/fantasybroker/internal/domain/model"
	profile "github.com/okian/fantasybroker/internal/domain/profile"
	stats "github.com/okian/fantasybroker/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func points(vals ...float64) model.PointsSeries {
	s := make(model.PointsSeries, len(vals))
	for i, v := range vals {
		s[i] = model.RoundPoints{Round: i + 1, Points: v}
	}
	return s
}

func market(vals ...float64) model.MarketSeries {
	s := make(model.MarketSeries, len(vals))
	for i, v := range vals {
		s[i] = model.MarketPoint{Value: v}
	}
	return s
}

func TestBuildPerformance(t *testing.T) {
	Convey("Given recent scoring rounds", t, func() {
		Convey("When the series is empty", func() {
			Convey("Then the profile is neutral, not penalized", func() {
				So(profile.BuildPerformance(nil, 3), ShouldResemble, profile.Performance{})
			})
		})

		Convey("When the player scores steadily", func() {
			p := profile.BuildPerformance(points(6, 6, 6), 3)

			Convey("Then trend is flat and momentum equals the normalized average", func() {
				So(p.AvgPoints, ShouldEqual, 6)
				So(p.Trend, ShouldEqual, 0)
				So(p.Momentum, ShouldAlmostEqual, 0.6, 1e-9)
			})
		})

		Convey("When the player is improving", func() {
			p := profile.BuildPerformance(points(2, 6, 10), 3)

			Convey("Then momentum exceeds the normalized average alone", func() {
				avgNorm := 0.6
				want := stats.Clamp(avgNorm+p.Trend*avgNorm, 0, 1)
				So(p.Trend, ShouldBeGreaterThan, 0)
				So(p.Momentum, ShouldAlmostEqual, want, 1e-9)
			})
		})

		Convey("When the player is elite and rising", func() {
			p := profile.BuildPerformance(points(10, 12, 14), 3)

			Convey("Then momentum never exceeds 1", func() {
				So(p.Momentum, ShouldEqual, 1)
			})
		})

		Convey("When more than the window is supplied", func() {
			Convey("Then only the most recent rounds count", func() {
				full := profile.BuildPerformance(points(0, 0, 0, 6, 6, 6), 3)
				So(full.AvgPoints, ShouldEqual, 6)
			})
		})
	})
}

func TestBuildMarket(t *testing.T) {
	Convey("Given a recent market-value series", t, func() {
		Convey("When the series is empty", func() {
			So(profile.BuildMarket(nil, 5), ShouldResemble, profile.Market{})
		})

		Convey("When values vary", func() {
			m := profile.BuildMarket(market(1_000_000, 1_200_000, 1_400_000), 5)

			So(m.AvgValue, ShouldAlmostEqual, 1_200_000, 1e-6)
			So(m.TrendFuture, ShouldBeGreaterThan, 0)
			So(m.Volatility, ShouldAlmostEqual, 400_000.0/1_200_000.0, 1e-9)
		})

		Convey("When values are flat", func() {
			m := profile.BuildMarket(market(2_000_000, 2_000_000), 5)

			So(m.Volatility, ShouldEqual, 0)
			So(m.TrendFuture, ShouldEqual, 0)
		})

		Convey("When the window truncates history", func() {
			m := profile.BuildMarket(market(9_000_000, 1_000_000, 1_000_000), 2)
			So(m.AvgValue, ShouldEqual, 1_000_000)
		})
	})
}
