package rank

import (
	"context"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
)

// defaultConfidenceThreshold is deliberately higher than the search noise
// floor: an automatic, unreviewed roster-import selection must be
// conservative to avoid silently importing the wrong player.
const defaultConfidenceThreshold = 85

// OutcomeKind distinguishes the three selector results.
type OutcomeKind string

// Selector outcomes. Exactly one applies to any input.
const (
	// OutcomeMatched means the top candidate cleared the confidence threshold.
	OutcomeMatched OutcomeKind = "matched"
	// OutcomeLowConfidence means a candidate scored above zero but below the
	// threshold; callers typically surface a manual-resolution prompt.
	OutcomeLowConfidence OutcomeKind = "low_confidence"
	// OutcomeNoMatch means no candidate scored above zero at all.
	OutcomeNoMatch OutcomeKind = "no_match"
)

// Outcome is the selector's three-way result. Best is meaningful for
// Matched and LowConfidence only.
type Outcome struct {
	Kind OutcomeKind
	Best match.Result
}

// SelectorOption applies a configuration option to the Selector.
type SelectorOption func(*Selector)

// WithConfidenceThreshold sets the minimum score for an automatic match.
func WithConfidenceThreshold(threshold int) SelectorOption {
	return func(s *Selector) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// Selector picks the single best candidate for unattended import matching,
// or reports that none was confident enough. Unlike the Ranker it keeps
// every candidate with a positive score, so "plausible but below threshold"
// is reported as LowConfidence rather than collapsed into NoMatch.
type Selector struct {
	scorer    match.Scorer
	threshold int
}

// NewSelector creates a Selector around the given scorer.
func NewSelector(scorer match.Scorer, opts ...SelectorOption) *Selector {
	s := &Selector{
		scorer:    scorer,
		threshold: defaultConfidenceThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Threshold returns the configured confidence threshold.
func (s *Selector) Threshold() int { return s.threshold }

// Best scores all candidates and returns exactly one of Matched,
// LowConfidence, or NoMatch. An empty candidate slice yields NoMatch.
func (s *Selector) Best(ctx context.Context, query string, candidates []model.Candidate) (Outcome, error) {
	var (
		best  match.Result
		found bool
	)
	for _, c := range candidates {
		res, err := s.scorer.Score(ctx, query, c)
		if err != nil {
			return Outcome{}, err
		}
		if res.Score == 0 {
			continue
		}
		if !found || better(res, best) {
			best = res
			found = true
		}
	}

	if !found {
		return Outcome{Kind: OutcomeNoMatch}, nil
	}
	if best.Score >= s.threshold {
		return Outcome{Kind: OutcomeMatched, Best: best}, nil
	}
	return Outcome{Kind: OutcomeLowConfidence, Best: best}, nil
}

// better applies the ranker's ordering to a pair of results.
func better(a, b match.Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Candidate.DisplayName != b.Candidate.DisplayName {
		return a.Candidate.DisplayName < b.Candidate.DisplayName
	}
	return a.Candidate.ID < b.Candidate.ID
}
