// Package model contains domain models passed between layers.
//
// Everything here is constructed fresh from upstream rows at the start of
// an engine invocation and discarded at the end; nothing is persisted.
package model

import (
	"strings"
	"time"
)

// PlayerSnapshot mirrors one upstream player row at the moment a batch
// starts. Immutable per engine call.
type PlayerSnapshot struct {
	ID       int64
	Name     string
	TeamID   int64
	TeamName string
	Position string

	MarketValue int64  // integer currency units
	MarketDelta string // raw signed delta as fed upstream, e.g. "+200000"

	RiskLevel   int  // 0-5 ordinal
	Injured     bool //
	TitularProb float64

	// Raw availability facts as they arrive from the feed.
	OnMarket         bool
	OwnerID          *int64
	OwnerClauseValue int64
	OwnerClausulable bool
	RosterStatus     string
}

// DeltaSign collapses the raw market delta string into a -1/0/+1 signal.
func (p PlayerSnapshot) DeltaSign() float64 {
	s := strings.TrimSpace(p.MarketDelta)
	switch {
	case strings.HasPrefix(s, "-"):
		return -1
	case s == "" || s == "0":
		return 0
	default:
		return 1
	}
}

// RoundPoints is one scored round for a player.
type RoundPoints struct {
	Round  int
	Points float64
}

// PointsSeries is a player's scoring history, oldest-first.
type PointsSeries []RoundPoints

// Values extracts the raw point values in series order.
func (s PointsSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Points
	}
	return out
}

// Tail returns the last n entries, or the whole series when shorter.
func (s PointsSeries) Tail(n int) PointsSeries {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// MarketPoint is one dated market valuation for a player.
type MarketPoint struct {
	Date  time.Time
	Value float64
}

// MarketSeries is a player's market-value history, oldest-first.
type MarketSeries []MarketPoint

// Values extracts the raw market values in series order.
func (s MarketSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Tail returns the last n entries, or the whole series when shorter.
func (s MarketSeries) Tail(n int) MarketSeries {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
