package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BROKER_CONFIG is set
//  3. env (prefix BROKER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BROKER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BROKER_WORKER_COUNT -> worker_count.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("BROKER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "broker_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if cfg.DefaultLimit <= 0 || cfg.MaxLimit < cfg.DefaultLimit {
		return fmt.Errorf("%w: limits must satisfy 0 < default_limit <= max_limit", ErrInvalidConfig)
	}
	if cfg.FormWindow <= 0 || cfg.MarketWindow <= 0 || cfg.ClauseHistoryWindow <= 0 {
		return fmt.Errorf("%w: history windows must be positive", ErrInvalidConfig)
	}
	if cfg.OverviewTTLSeconds < 0 || cfg.RecentBuyDays < 0 {
		return fmt.Errorf("%w: ttl and protection window must not be negative", ErrInvalidConfig)
	}
	return nil
}
