// Package cache provides a TTL cache for ranked search results. The scorer
// and ranker stay pure; caching is layered here, by their caller, so it can
// be removed or replaced without touching correctness.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL     = 30 * time.Second
	defaultMaxSize = 10_000
)

// ResultCache stores ranked results keyed by the full query shape.
type ResultCache interface {
	// Get returns the cached results for key, or ok=false on miss/expiry.
	Get(ctx context.Context, key string) (results []match.Result, ok bool)

	// Put stores results under key with the configured TTL.
	Put(ctx context.Context, key string, results []match.Result)

	// Len returns the number of live entries.
	Len() int
}

// Option applies a configuration option to the in-memory cache.
type Option func(*memoryCache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *memoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxSize bounds the number of entries kept.
func WithMaxSize(size int) Option {
	return func(c *memoryCache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *memoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

type entry struct {
	results   []match.Result
	expiresAt time.Time
}

// memoryCache implements ResultCache with a mutex-guarded map and lazy
// expiry. When full it sweeps expired entries first and only then drops
// an arbitrary live entry, which is acceptable for a best-effort cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates an in-memory result cache with configuration options.
func New(opts ...Option) ResultCache {
	c := &memoryCache{
		ttl:     defaultTTL,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]entry)
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) ([]match.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return e.results, true
}

func (c *memoryCache) Put(_ context.Context, key string, results []match.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	c.entries[key] = entry{
		results:   results,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries, falling back to one arbitrary live
// entry when nothing has expired yet. Callers hold the mutex.
func (c *memoryCache) evictLocked() {
	now := c.now()
	dropped := false
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			dropped = true
		}
	}
	if dropped {
		return
	}
	for k := range c.entries {
		delete(c.entries, k)
		return
	}
}
