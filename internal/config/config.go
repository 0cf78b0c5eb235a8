// Package config defines engine configuration structures and loading hooks.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount bounds the per-batch player fan-out.
	WorkerCount int `koanf:"worker_count"`

	// DefaultLimit is the ranking size when the caller passes none.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the ranking size a caller may request.
	MaxLimit int `koanf:"max_limit"`

	// OverviewTTLSeconds is the portfolio insights cache lifetime.
	OverviewTTLSeconds int `koanf:"overview_ttl_seconds"`

	// RecentBuyDays is the post-acquisition protection window.
	RecentBuyDays int `koanf:"recent_buy_days"`

	// FormWindow is how many recent rounds feed the form profile.
	FormWindow int `koanf:"form_window"`

	// MarketWindow is how many recent samples feed the market profile.
	MarketWindow int `koanf:"market_window"`

	// ClauseHistoryWindow is how many recent market samples feed the
	// portfolio advisory view (peak detection, returned history).
	ClauseHistoryWindow int `koanf:"clause_history_window"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		WorkerCount:         runtime.NumCPU() * 2,
		DefaultLimit:        20,
		MaxLimit:            100,
		OverviewTTLSeconds:  60,
		RecentBuyDays:       10,
		FormWindow:          3,
		MarketWindow:        5,
		ClauseHistoryWindow: 30,
	}
}
