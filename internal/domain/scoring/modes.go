package scoring

import "fmt"

// Mode selects the evaluation profile used to weight player signals.
type Mode string

// Supported evaluation modes.
const (
	ModeOverall     Mode = "overall"
	ModePerformance Mode = "performance"
	ModeMarket      Mode = "market"
	ModeSell        Mode = "sell"
)

// ParseMode validates a raw mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOverall, ModePerformance, ModeMarket, ModeSell:
		return Mode(s), nil
	case "":
		return ModeOverall, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// weights is the fixed per-mode weight table. These constants were tuned
// together with the undervalue calibration; changing one without the
// other shifts every advice threshold downstream.
type weights struct {
	titular     float64
	momentum    float64
	risk        float64
	value       float64
	delta       float64
	lesion      float64
	afford      float64
	undervalue  float64
	trendFuture float64
	volatility  float64
}

var modeWeights = map[Mode]weights{
	ModeOverall: {
		titular:  0.30,
		momentum: 0.25,
		risk:     0.20,
		value:    0.15,
		delta:    0.05,
		lesion:   -1.0,
	},
	ModePerformance: {
		titular:  0.35,
		momentum: 0.35,
		risk:     0.15,
		value:    0.05,
		delta:    0.05,
		lesion:   -1.0,
	},
	ModeMarket: {
		titular:     0.20,
		momentum:    0.10,
		risk:        0.10,
		value:       0.10,
		delta:       0.05,
		lesion:      -0.8,
		afford:      0.20,
		undervalue:  0.10,
		trendFuture: 0.05,
		volatility:  -0.05,
	},
	ModeSell: {
		momentum:    -0.40,
		trendFuture: -0.25,
		undervalue:  -0.15,
		volatility:  0.10,
		delta:       0.15,
		risk:        0.20,
	},
}
