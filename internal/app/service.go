// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pilon/fantasygrid/internal/adapters/cache"
	importqueue "github.com/pilon/fantasygrid/internal/adapters/mq/queue"
	workerpool "github.com/pilon/fantasygrid/internal/adapters/mq/worker"
	"github.com/pilon/fantasygrid/internal/adapters/repository"
	"github.com/pilon/fantasygrid/internal/domain/dedupe"
	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/rank"
	"github.com/pilon/fantasygrid/internal/domain/types"
	"github.com/pilon/fantasygrid/pkg/logger"
	"github.com/pilon/fantasygrid/pkg/metrics"
)

// Service wires the matcher, stores, cache, and import pipeline together.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster      repository.Roster
	resolutions repository.Resolutions
	scorer      match.Scorer
	ranker      *rank.Ranker
	selector    *rank.Selector
	results     cache.ResultCache
	tracker     dedupe.Tracker
	queue       importqueue.Queue
	pool        *workerpool.Pool

	// Configuration
	workerCount         int
	queueSize           int
	dedupeSize          int
	shardCount          int
	minScore            int
	searchLimit         int
	confidenceThreshold int
	maxFuzzyDistance    int
	minFuzzyQueryLen    int
	cacheTTL            time.Duration
	cacheSize           int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of import-resolution workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the import queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the import-id idempotency tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the roster store shard count.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMinScore sets the search noise floor.
func WithMinScore(min int) Option {
	return func(s *Service) {
		if min >= 0 {
			s.minScore = min
		}
	}
}

// WithSearchLimit sets the default search result cap.
func WithSearchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// WithConfidenceThreshold sets the unattended-import match threshold.
func WithConfidenceThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.confidenceThreshold = threshold
		}
	}
}

// WithFuzzyBounds sets the fuzzy tier's distance ceiling and minimum
// query length.
func WithFuzzyBounds(maxDistance, minQueryLen int) Option {
	return func(s *Service) {
		if maxDistance >= 0 {
			s.maxFuzzyDistance = maxDistance
		}
		if minQueryLen > 0 {
			s.minFuzzyQueryLen = minQueryLen
		}
	}
}

// WithCache shapes the search-result cache.
func WithCache(ttl time.Duration, size int) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         4,
		queueSize:           50_000,
		dedupeSize:          100_000,
		shardCount:          8,
		minScore:            15,
		searchLimit:         20,
		confidenceThreshold: 85,
		maxFuzzyDistance:    2,
		minFuzzyQueryLen:    4,
		cacheTTL:            30 * time.Second,
		cacheSize:           10_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	s.roster = repository.NewRosterStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.resolutions = repository.NewResolutionStore(ctx)
	s.scorer = match.NewTieredScorer(
		match.WithMaxFuzzyDistance(s.maxFuzzyDistance),
		match.WithMinFuzzyQueryLen(s.minFuzzyQueryLen),
	)
	s.ranker = rank.New(s.scorer,
		rank.WithMinScore(s.minScore),
		rank.WithLimit(s.searchLimit),
	)
	s.selector = rank.NewSelector(s.scorer,
		rank.WithConfidenceThreshold(s.confidenceThreshold),
	)
	s.results = cache.New(
		cache.WithTTL(s.cacheTTL),
		cache.WithMaxSize(s.cacheSize),
	)
	s.tracker = dedupe.NewTracker(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = importqueue.NewMemoryQueue(
		importqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.roster, s.selector, s.resolutions)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("minScore", s.minScore),
		logger.Int("confidenceThreshold", s.confidenceThreshold),
	)
	return nil
}

// Stop gracefully shuts down the service: the queue closes first so the
// workers drain the backlog, then the pool is awaited.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if closer, ok := s.roster.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// Search returns ranked matches for query, optionally filtered by position.
// Results are cached per (query, position, limit) with the configured TTL.
func (s *Service) Search(ctx context.Context, query string, pos model.Position, limit int) ([]types.Hit, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSearchLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordSearch()

	if limit <= 0 {
		limit = s.searchLimit
	}
	key := cacheKey(query, pos, limit)
	if cached, ok := s.results.Get(ctx, key); ok {
		return toHits(cached), nil
	}

	candidates, err := s.roster.Candidates(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}

	ranked, err := s.ranker.Rank(ctx, query, candidates, limit)
	if err != nil {
		metrics.RecordScoringError()
		return nil, err
	}

	s.results.Put(ctx, key, ranked)
	metrics.RecordSearchResults(len(ranked))
	return toHits(ranked), nil
}

// Resolve runs the best-match selector synchronously, bypassing the cache.
func (s *Service) Resolve(ctx context.Context, query string, pos model.Position) (rank.Outcome, error) {
	candidates, err := s.roster.Candidates(ctx, pos)
	if err != nil {
		return rank.Outcome{}, fmt.Errorf("fetching candidates: %w", err)
	}

	outcome, err := s.selector.Best(ctx, query, candidates)
	if err != nil {
		metrics.RecordScoringError()
		return rank.Outcome{}, err
	}
	metrics.RecordResolveOutcome(string(outcome.Kind))
	return outcome, nil
}

// UpsertPlayer adds or replaces a roster record.
func (s *Service) UpsertPlayer(ctx context.Context, c model.Candidate) error {
	return s.roster.Upsert(ctx, c)
}

// Player returns one roster record by id.
func (s *Service) Player(ctx context.Context, id string) (model.Candidate, error) {
	return s.roster.Get(ctx, id)
}

// RemovePlayer deletes a roster record by id.
func (s *Service) RemovePlayer(ctx context.Context, id string) error {
	return s.roster.Remove(ctx, id)
}

// SeenAndRecord atomically checks whether an import id was seen and records
// it if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.tracker.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordImportDuplicate()
	}
	return seen
}

// Unrecord removes an import id from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.tracker.Unrecord(ctx, id)
}

// EnqueueImport submits an import request for asynchronous resolution.
// A missing import id gets a generated one; the chosen id is returned.
// Returns ok=false on backpressure.
func (s *Service) EnqueueImport(ctx context.Context, req model.ImportRequest) (string, bool) {
	if req.ImportID == "" {
		req.ImportID = uuid.NewString()
	}
	if req.TS.IsZero() {
		req.TS = time.Now().UTC()
	}

	ok := s.queue.Enqueue(ctx, req)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return req.ImportID, ok
}

// ImportResolution returns the recorded outcome for an import id.
// Pending and unknown imports both report repository.ErrNotFound.
func (s *Service) ImportResolution(ctx context.Context, importID string) (model.Resolution, error) {
	return s.resolutions.Get(ctx, importID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             s.started,
		"workerCount":         s.workerCount,
		"queueSize":           s.queueSize,
		"minScore":            s.minScore,
		"confidenceThreshold": s.confidenceThreshold,
	}

	if s.started {
		ctx := context.Background()
		stats["rosterSize"] = s.roster.Count(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["resolutions"] = s.resolutions.Count(ctx)
		stats["trackedImports"] = s.tracker.Size()
		stats["cachedSearches"] = s.results.Len()
	}

	return stats
}

// RosterCount returns the number of players tracked.
func (s *Service) RosterCount(ctx context.Context) int {
	return s.roster.Count(ctx)
}

// cacheKey builds the cache key from the full query shape. Queries are
// normalized the same way the scorer normalizes them so "Mahomes" and
// "mahomes " share an entry.
func cacheKey(query string, pos model.Position, limit int) string {
	return strings.ToLower(strings.TrimSpace(query)) + "|" + string(pos) + "|" + strconv.Itoa(limit)
}

// toHits converts scored results to the API read shape.
func toHits(results []match.Result) []types.Hit {
	hits := make([]types.Hit, len(results))
	for i, r := range results {
		hits[i] = types.Hit{
			PlayerID:  r.Candidate.ID,
			Name:      r.Candidate.DisplayName,
			Position:  string(r.Candidate.Position),
			Team:      r.Candidate.Team,
			Score:     r.Score,
			MatchKind: string(r.Kind),
		}
	}
	return hits
}
