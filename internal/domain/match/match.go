// Package match implements the tiered relevance scorer that compares a
// search query against a candidate player name.
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pilon/fantasygrid/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultMaxFuzzyDistance = 2
	defaultMinFuzzyQueryLen = 4

	scoreExact           = 100
	scorePrefix          = 80
	scoreSubstring       = 60
	scoreWordBoundary    = 50
	scoreFuzzyBase       = 40
	fuzzyDistancePenalty = 5
)

// Kind tags why a score was assigned. It is diagnostic only; ranking
// decisions read the score, never the kind.
type Kind string

// Match kinds, ordered from strongest to weakest tier.
const (
	KindExact        Kind = "exact"
	KindPrefix       Kind = "prefix"
	KindSubstring    Kind = "substring"
	KindWordBoundary Kind = "word_boundary"
	KindFuzzy        Kind = "fuzzy"
	KindNone         Kind = "none"
)

// Result is the scored outcome of comparing one query to one candidate.
type Result struct {
	Candidate model.Candidate
	Score     int // 0..100
	Kind      Kind
}

// Scorer computes a relevance score for a single candidate.
type Scorer interface {
	// Score compares query against the candidate's display name.
	// It fails with ErrInvalidInput when either side is empty after trimming.
	Score(ctx context.Context, query string, c model.Candidate) (Result, error)
}

// Option applies a configuration option to the TieredScorer.
type Option func(*TieredScorer)

// WithMaxFuzzyDistance sets the edit-distance ceiling for the fuzzy tier.
func WithMaxFuzzyDistance(d int) Option {
	return func(s *TieredScorer) {
		if d >= 0 {
			s.maxFuzzyDistance = d
		}
	}
}

// WithMinFuzzyQueryLen sets the minimum query length for the fuzzy tier.
// Queries shorter than this never fuzzy-match; short queries produce too
// many false positives under small edit distances.
func WithMinFuzzyQueryLen(n int) Option {
	return func(s *TieredScorer) {
		if n > 0 {
			s.minFuzzyQueryLen = n
		}
	}
}

// TieredScorer implements Scorer with the five-tier heuristic:
// exact(100) > prefix(80) > substring(60) > word_boundary(50) > fuzzy.
// The first matching tier wins; lower tiers are never consulted after a hit.
type TieredScorer struct {
	maxFuzzyDistance int
	minFuzzyQueryLen int
}

// NewTieredScorer creates a scorer with configuration options.
func NewTieredScorer(opts ...Option) *TieredScorer {
	s := &TieredScorer{
		maxFuzzyDistance: defaultMaxFuzzyDistance,
		minFuzzyQueryLen: defaultMinFuzzyQueryLen,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score compares query against the candidate's display name. Both sides
// are lower-cased and trimmed of outer whitespace first; inner whitespace
// and punctuation are literal.
func (s *TieredScorer) Score(_ context.Context, query string, c model.Candidate) (Result, error) {
	q := normalize(query)
	name := normalize(c.DisplayName)
	if q == "" {
		return Result{}, fmt.Errorf("empty query: %w", ErrInvalidInput)
	}
	if name == "" {
		return Result{}, fmt.Errorf("candidate %q has empty display name: %w", c.ID, ErrInvalidInput)
	}

	score, kind := s.scoreNormalized(q, name)
	return Result{Candidate: c, Score: score, Kind: kind}, nil
}

// scoreNormalized walks the tiers in strict priority order.
func (s *TieredScorer) scoreNormalized(q, name string) (int, Kind) {
	if q == name {
		return scoreExact, KindExact
	}
	if strings.HasPrefix(name, q) {
		return scorePrefix, KindPrefix
	}
	if strings.Contains(name, q) {
		return scoreSubstring, KindSubstring
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q) {
			return scoreWordBoundary, KindWordBoundary
		}
	}
	if len(q) >= s.minFuzzyQueryLen {
		if d := s.fuzzyDistance(q, name); d >= 0 {
			score := scoreFuzzyBase - fuzzyDistancePenalty*d
			if score < 0 {
				score = 0
			}
			return score, KindFuzzy
		}
	}
	return 0, KindNone
}

// fuzzyDistance returns the smallest Levenshtein distance between the query
// and either the whole name or any of its whitespace-delimited words, or -1
// when nothing comes within the configured ceiling. Matching per word lets a
// typo'd surname ("mahommes") still find "patrick mahomes".
func (s *TieredScorer) fuzzyDistance(q, name string) int {
	best := -1
	consider := func(target string) {
		d := fuzzy.LevenshteinDistance(q, target)
		if d <= s.maxFuzzyDistance && (best < 0 || d < best) {
			best = d
		}
	}
	consider(name)
	for _, word := range strings.Fields(name) {
		consider(word)
	}
	return best
}

// normalize lower-cases and trims outer whitespace. Inner whitespace is
// preserved so "de von" and "devon" stay distinct.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
