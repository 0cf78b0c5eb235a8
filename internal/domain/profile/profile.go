// Package profile turns a player's raw history series into the compact
// per-player profiles the scorer consumes.
package profile

import (
	"github.com/okian/fantasybroker/internal/domain/model"
	"github.com/okian/fantasybroker/internal/domain/stats"
)

// Default recency windows. Short on purpose: the engine tracks current
// form, not season-long history.
const (
	DefaultFormWindow   = 3
	DefaultMarketWindow = 5
)

const momentumAvgCeiling = 10.0

// Performance summarizes a player's recent scoring output.
type Performance struct {
	AvgPoints float64 `json:"avg_points"`
	Trend     float64 `json:"trend"`
	Momentum  float64 `json:"momentum"`
}

// Market summarizes a player's recent market-value behavior.
type Market struct {
	AvgValue    float64 `json:"avg_value"`
	Volatility  float64 `json:"volatility"`
	TrendFuture float64 `json:"trend_future"`
}

// BuildPerformance computes a performance profile from the last window
// rounds of a scoring series (oldest-first). An empty series yields a
// neutral zero profile, never a penalty.
func BuildPerformance(series model.PointsSeries, window int) Performance {
	if window <= 0 {
		window = DefaultFormWindow
	}
	points := series.Tail(window).Values()
	if len(points) == 0 {
		return Performance{}
	}

	avg := stats.Mean(points)
	trend := stats.LinearTrend(points)

	// Momentum rewards both absolute recent output and positive
	// trajectory, never exceeding 1.
	avgNorm := stats.Clamp(avg/momentumAvgCeiling, 0, 1)
	momentum := stats.Clamp(avgNorm+trend*avgNorm, 0, 1)

	return Performance{
		AvgPoints: avg,
		Trend:     trend,
		Momentum:  momentum,
	}
}

// BuildMarket computes a market profile from the last window points of a
// market-value series (oldest-first). Empty series yields all zeros.
func BuildMarket(series model.MarketSeries, window int) Market {
	if window <= 0 {
		window = DefaultMarketWindow
	}
	values := series.Tail(window).Values()
	if len(values) == 0 {
		return Market{}
	}

	return Market{
		AvgValue:    stats.Mean(values),
		Volatility:  stats.Volatility(values),
		TrendFuture: stats.LinearTrend(values),
	}
}
