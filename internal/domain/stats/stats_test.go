package stats_test

import (
	"math"
	"testing"

	stats "github.com/okian/fantasybroker/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a normalization range", t, func() {
		Convey("When the range is valid", func() {
			Convey("Then results stay within [0,1] for any input", func() {
				So(stats.Normalize(5, 0, 10), ShouldEqual, 0.5)
				So(stats.Normalize(-100, 0, 10), ShouldEqual, 0)
				So(stats.Normalize(1000, 0, 10), ShouldEqual, 1)
			})
		})

		Convey("When the range is degenerate (max == min)", func() {
			Convey("Then it returns 0", func() {
				So(stats.Normalize(5, 3, 3), ShouldEqual, 0)
			})
		})
	})
}

func TestMean(t *testing.T) {
	Convey("Given numeric sequences", t, func() {
		Convey("When the sequence is empty", func() {
			So(stats.Mean(nil), ShouldEqual, 0)
		})

		Convey("When the sequence has values", func() {
			So(stats.Mean([]float64{2, 4, 6}), ShouldEqual, 4)
		})

		Convey("When the sequence contains non-finite values", func() {
			Convey("Then they are ignored", func() {
				So(stats.Mean([]float64{2, math.NaN(), 4}), ShouldEqual, 3)
				So(stats.Mean([]float64{math.Inf(1)}), ShouldEqual, 0)
			})
		})
	})
}

func TestLinearTrend(t *testing.T) {
	Convey("Given point series", t, func() {
		Convey("When the series is constant", func() {
			Convey("Then the trend is 0 for any length >= 2", func() {
				So(stats.LinearTrend([]float64{5, 5}), ShouldEqual, 0)
				So(stats.LinearTrend([]float64{5, 5, 5, 5, 5}), ShouldEqual, 0)
			})
		})

		Convey("When the series is shorter than 2", func() {
			So(stats.LinearTrend(nil), ShouldEqual, 0)
			So(stats.LinearTrend([]float64{7}), ShouldEqual, 0)
		})

		Convey("When the series rises", func() {
			Convey("Then the trend is positive and clamped to 1", func() {
				So(stats.LinearTrend([]float64{1, 2, 3}), ShouldBeGreaterThan, 0)
				So(stats.LinearTrend([]float64{0.1, 50, 100}), ShouldBeLessThanOrEqualTo, 1)
			})
		})

		Convey("When the series falls", func() {
			So(stats.LinearTrend([]float64{3, 2, 1}), ShouldBeLessThan, 0)
			So(stats.LinearTrend([]float64{100, 1, 0.1}), ShouldBeGreaterThanOrEqualTo, -1)
		})

		Convey("When the mean is zero", func() {
			Convey("Then the divide-by-zero guard returns 0", func() {
				So(stats.LinearTrend([]float64{-1, 1}), ShouldEqual, 0)
			})
		})
	})
}

func TestVolatility(t *testing.T) {
	Convey("Given value series", t, func() {
		Convey("When the series is constant", func() {
			So(stats.Volatility([]float64{4, 4, 4}), ShouldEqual, 0)
		})

		Convey("When the mean is non-positive", func() {
			So(stats.Volatility([]float64{-2, 2}), ShouldEqual, 0)
			So(stats.Volatility([]float64{-3, -1}), ShouldEqual, 0)
		})

		Convey("When the series is empty", func() {
			So(stats.Volatility(nil), ShouldEqual, 0)
		})

		Convey("When the series varies", func() {
			// (8-2)/5 = 1.2
			So(stats.Volatility([]float64{2, 5, 8}), ShouldAlmostEqual, 1.2, 1e-9)
		})
	})
}

func TestUndervalueFactor(t *testing.T) {
	Convey("Given points and market value", t, func() {
		Convey("When either input is non-positive", func() {
			So(stats.UndervalueFactor(0, 4_000_000), ShouldEqual, 0)
			So(stats.UndervalueFactor(8, 0), ShouldEqual, 0)
			So(stats.UndervalueFactor(-1, 4_000_000), ShouldEqual, 0)
			So(stats.UndervalueFactor(8, -5), ShouldEqual, 0)
		})

		Convey("When avg points are 8 at 4M market value (ratio 2)", func() {
			Convey("Then the factor matches the documented log curve exactly", func() {
				want := math.Log10(3) / math.Log10(16)
				So(stats.UndervalueFactor(8, 4_000_000), ShouldAlmostEqual, want, 1e-12)
			})
		})

		Convey("When the ratio falls below 1.5", func() {
			Convey("Then the low-ratio penalty applies", func() {
				want := math.Log10(2)/math.Log10(16) - (1.5-1.0)*0.15
				So(stats.UndervalueFactor(1, 1_000_000), ShouldAlmostEqual, want, 1e-12)
			})
		})

		Convey("When the ratio increases beyond 1.5", func() {
			Convey("Then the factor is monotonic non-decreasing", func() {
				prev := 0.0
				for ratio := 1.5; ratio <= 20; ratio += 0.5 {
					got := stats.UndervalueFactor(ratio, 1_000_000)
					So(got, ShouldBeGreaterThanOrEqualTo, prev)
					prev = got
				}
			})
		})

		Convey("When the ratio is elite", func() {
			Convey("Then the factor is capped at 1", func() {
				So(stats.UndervalueFactor(100, 1_000_000), ShouldEqual, 1)
			})
		})
	})
}

func TestMovingAverage(t *testing.T) {
	Convey("Given a series and window", t, func() {
		Convey("When the window covers the tail", func() {
			So(stats.MovingAverage([]float64{1, 2, 3, 4}, 2), ShouldEqual, 3.5)
		})

		Convey("When the window exceeds the series", func() {
			So(stats.MovingAverage([]float64{1, 2}, 5), ShouldEqual, 1.5)
		})

		Convey("When inputs are degenerate", func() {
			So(stats.MovingAverage(nil, 3), ShouldEqual, 0)
			So(stats.MovingAverage([]float64{1, 2}, 0), ShouldEqual, 0)
		})
	})
}

func TestGuards(t *testing.T) {
	Convey("Given the guarded math helpers", t, func() {
		Convey("SafeDiv returns 0 for a zero denominator", func() {
			So(stats.SafeDiv(10, 0), ShouldEqual, 0)
			So(stats.SafeDiv(10, 2), ShouldEqual, 5)
		})

		Convey("Clamp bounds values", func() {
			So(stats.Clamp(5, 0, 1), ShouldEqual, 1)
			So(stats.Clamp(-5, 0, 1), ShouldEqual, 0)
			So(stats.Clamp(0.3, 0, 1), ShouldEqual, 0.3)
		})
	})
}
