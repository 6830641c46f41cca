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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PILON_CONFIG is set
//  3. env (prefix PILON_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PILON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PILON_ADDR, PILON_MIN_SCORE, ...
	// Keys map to the koanf struct tags with underscores preserved.
	envProvider := env.Provider("PILON_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pilon_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.MinScore < 0 || cfg.MinScore > 100:
		return fmt.Errorf("%w: min_score must be in [0,100]", ErrInvalidConfig)
	case cfg.ConfidenceThreshold < 1 || cfg.ConfidenceThreshold > 100:
		return fmt.Errorf("%w: confidence_threshold must be in [1,100]", ErrInvalidConfig)
	case cfg.ConfidenceThreshold <= cfg.MinScore:
		return fmt.Errorf("%w: confidence_threshold must exceed min_score", ErrInvalidConfig)
	case cfg.MaxFuzzyDistance < 0:
		return fmt.Errorf("%w: max_fuzzy_distance must not be negative", ErrInvalidConfig)
	case cfg.MinFuzzyQueryLen < 1:
		return fmt.Errorf("%w: min_fuzzy_query_len must be at least 1", ErrInvalidConfig)
	case cfg.SearchLimit < 1 || cfg.SearchLimit > cfg.MaxSearchLimit:
		return fmt.Errorf("%w: search_limit must be in [1,max_search_limit]", ErrInvalidConfig)
	}
	return nil
}
