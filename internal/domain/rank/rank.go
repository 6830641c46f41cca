// Package rank orders scored candidates and selects confident best matches.
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
)

// Default ranking configuration constants.
const (
	defaultMinScore = 15
	defaultLimit    = 20
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithMinScore sets the noise floor; results scoring at or below it are
// dropped entirely.
func WithMinScore(min int) Option {
	return func(r *Ranker) {
		if min >= 0 {
			r.minScore = min
		}
	}
}

// WithLimit sets the maximum number of results returned.
func WithLimit(limit int) Option {
	return func(r *Ranker) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// Ranker scores every candidate independently and returns an ordered,
// thresholded, truncated result list. Output is deterministic: score
// descending, ties broken by display name ascending, then id ascending.
type Ranker struct {
	scorer   match.Scorer
	minScore int
	limit    int
}

// New creates a Ranker around the given scorer with configuration options.
func New(scorer match.Scorer, opts ...Option) *Ranker {
	r := &Ranker{
		scorer:   scorer,
		minScore: defaultMinScore,
		limit:    defaultLimit,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// MinScore returns the configured noise floor.
func (r *Ranker) MinScore() int { return r.minScore }

// Limit returns the configured result cap.
func (r *Ranker) Limit() int { return r.limit }

// Rank scores candidates against query. An empty candidate slice is not an
// error and yields an empty result. A limit <= 0 falls back to the
// configured default.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []model.Candidate, limit int) ([]match.Result, error) {
	results, err := r.scoreAll(ctx, query, candidates)
	if err != nil {
		return nil, err
	}

	kept := results[:0]
	for _, res := range results {
		if res.Score > r.minScore {
			kept = append(kept, res)
		}
	}
	sortResults(kept)

	if limit <= 0 {
		limit = r.limit
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

// scoreAll runs the scorer over every candidate. Scoring one candidate
// never depends on another, so failures abort immediately.
func (r *Ranker) scoreAll(ctx context.Context, query string, candidates []model.Candidate) ([]match.Result, error) {
	results := make([]match.Result, 0, len(candidates))
	for _, c := range candidates {
		res, err := r.scorer.Score(ctx, query, c)
		if err != nil {
			return nil, fmt.Errorf("scoring candidate %q: %w", c.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// sortResults orders by score desc, then display name asc, then id asc.
// The id tie-break keeps output byte-identical across runs even when two
// distinct players share a name.
func sortResults(results []match.Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Candidate.DisplayName != b.Candidate.DisplayName {
			return a.Candidate.DisplayName < b.Candidate.DisplayName
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}
