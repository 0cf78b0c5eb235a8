// Package stats provides the pure numeric primitives the valuation
// pipeline is built from. Every function is side-effect free and guards
// its own degenerate inputs; no call here may panic or return NaN.
package stats

import "math"

// Calibration constants for the undervalue curve. Empirically tuned
// against the advice thresholds downstream; do not re-derive.
const (
	undervalueLogBase    = 16.0
	lowRatioKnee         = 1.5
	lowRatioPenaltySlope = 0.15
	currencyUnit         = 1_000_000.0
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// SafeDiv divides num by den, returning 0 for a zero denominator.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Normalize linearly scales value into [0,1] over [min,max].
// A degenerate range (max == min) yields 0.
func Normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	return Clamp((value-min)/(max-min), 0, 1)
}

// Mean returns the arithmetic mean over finite values, 0 for empty or
// all-invalid input.
func Mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LinearTrend computes the ordinary-least-squares slope of values against
// their index, normalized by the series mean and clamped to [-1,1].
// Captures direction and sharpness of change as a bounded scalar.
// Series shorter than 2 points have no trend.
func LinearTrend(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := Mean(values)
	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	slope := SafeDiv(num, den)
	trend := SafeDiv(slope, yMean)
	return Clamp(trend, -1, 1)
}

// Volatility returns range-based dispersion (max-min)/mean, 0 when the
// mean is non-positive or the series is empty. Deliberately not
// variance-based: short series (five points or fewer) make variance noisy.
func Volatility(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := Mean(values)
	if avg <= 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return (max - min) / avg
}

// UndervalueFactor maps points-per-million efficiency into [0,1] on a
// log-calibrated curve, punishing low-value ratios disproportionately
// while giving diminishing returns to elite ones. Non-positive inputs
// yield 0.
func UndervalueFactor(avgPoints, marketValue float64) float64 {
	if avgPoints <= 0 || marketValue <= 0 {
		return 0
	}
	ratio := avgPoints / (marketValue / currencyUnit)
	calibrated := math.Log10(ratio+1) / math.Log10(undervalueLogBase)
	if ratio < lowRatioKnee {
		calibrated -= (lowRatioKnee - ratio) * lowRatioPenaltySlope
	}
	return Clamp(calibrated, 0, 1)
}

// MovingAverage returns the mean of the last window elements.
func MovingAverage(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if window > len(values) {
		window = len(values)
	}
	return Mean(values[len(values)-window:])
}
