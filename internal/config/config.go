// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars.
// - All matching thresholds are configuration, not constants: the "right"
//   cutoffs are product decisions and get tuned per deployment.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ImportQueueSize bounds the in-memory import queue.
	ImportQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of import-resolution workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the import-id idempotency tracker.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the roster store.
	ShardCount int `koanf:"shard_count"`

	// MinScore drops search results scoring at or below it.
	MinScore int `koanf:"min_score"`

	// SearchLimit is the default number of search results returned.
	SearchLimit int `koanf:"search_limit"`

	// MaxSearchLimit caps GET /search?limit.
	MaxSearchLimit int `koanf:"max_search_limit"`

	// ConfidenceThreshold is the minimum score for an unattended import match.
	ConfidenceThreshold int `koanf:"confidence_threshold"`

	// MaxFuzzyDistance is the edit-distance ceiling for the fuzzy tier.
	MaxFuzzyDistance int `koanf:"max_fuzzy_distance"`

	// MinFuzzyQueryLen is the minimum query length eligible for fuzzy matching.
	MinFuzzyQueryLen int `koanf:"min_fuzzy_query_len"`

	// CacheTTLMS and CacheSize shape the search-result cache.
	CacheTTLMS int `koanf:"cache_ttl_ms"`
	CacheSize  int `koanf:"cache_size"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		ImportQueueSize:     50_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          100_000,
		ShardCount:          8,
		MinScore:            15,
		SearchLimit:         20,
		MaxSearchLimit:      100,
		ConfidenceThreshold: 85,
		MaxFuzzyDistance:    2,
		MinFuzzyQueryLen:    4,
		CacheTTLMS:          30_000,
		CacheSize:           10_000,
	}
}
