package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/pkg/metrics"
)

// defaultShardCount spreads player records across independently locked
// shards so roster syncs do not serialize against search reads.
const defaultShardCount = 8

// Option applies a configuration option to the RosterStore.
type Option func(*RosterStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(s *RosterStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// rosterShard is one lock domain of the store.
type rosterShard struct {
	mu      sync.RWMutex
	players map[string]model.Candidate
}

// RosterStore implements Roster with sharded in-memory maps keyed by
// player id.
type RosterStore struct {
	shards     []*rosterShard
	shardCount int
}

// NewRosterStore creates a sharded in-memory roster store.
func NewRosterStore(_ context.Context, opts ...Option) *RosterStore {
	s := &RosterStore{
		shardCount: defaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*rosterShard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &rosterShard{players: make(map[string]model.Candidate)}
	}

	metrics.UpdateRosterShardCount(s.shardCount)
	return s
}

// shardFor hashes a player id onto its shard.
func (s *RosterStore) shardFor(id string) *rosterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// Upsert inserts or replaces a player record. A record with a blank id or
// display name is rejected; blank names must never reach the scorer.
func (s *RosterStore) Upsert(ctx context.Context, c model.Candidate) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("missing player id: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(c.DisplayName) == "" {
		return fmt.Errorf("player %q missing display name: %w", c.ID, ErrInvalidInput)
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}

	shard := s.shardFor(c.ID)
	shard.mu.Lock()
	shard.players[c.ID] = c
	shard.mu.Unlock()

	metrics.UpdateRosterSize(s.Count(ctx))
	return nil
}

// Get returns one player by id.
func (s *RosterStore) Get(_ context.Context, id string) (model.Candidate, error) {
	shard := s.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	c, ok := shard.players[id]
	if !ok {
		return model.Candidate{}, fmt.Errorf("player %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Remove deletes a player by id.
func (s *RosterStore) Remove(ctx context.Context, id string) error {
	shard := s.shardFor(id)
	shard.mu.Lock()
	_, ok := shard.players[id]
	if ok {
		delete(shard.players, id)
	}
	shard.mu.Unlock()

	if !ok {
		return fmt.Errorf("player %q: %w", id, ErrNotFound)
	}
	metrics.UpdateRosterSize(s.Count(ctx))
	return nil
}

// Candidates returns active players filtered by position. The result is
// sorted by id so repeated calls feed the ranker identical input.
func (s *RosterStore) Candidates(_ context.Context, pos model.Position) ([]model.Candidate, error) {
	var out []model.Candidate
	for _, shard := range s.shards {
		shard.mu.RLock()
		for _, c := range shard.players {
			if c.Status != model.StatusActive {
				continue
			}
			if pos != model.PositionAny && c.Position != pos {
				continue
			}
			out = append(out, c)
		}
		shard.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the number of players tracked, active or not.
func (s *RosterStore) Count(_ context.Context) int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		total += len(shard.players)
		shard.mu.RUnlock()
	}
	return total
}

// Close releases the store. Present for symmetry with future disk-backed
// implementations; the in-memory store has nothing to flush.
func (s *RosterStore) Close() error { return nil }
