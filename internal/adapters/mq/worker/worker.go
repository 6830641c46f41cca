// Package worker resolves queued roster-import requests through the
// best-match selector and records their outcomes.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/pilon/fantasygrid/internal/adapters/mq/queue"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/rank"
	"github.com/pilon/fantasygrid/pkg/logger"
	"github.com/pilon/fantasygrid/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Matcher selects the best candidate for an import label.
type Matcher interface {
	Best(ctx context.Context, query string, candidates []model.Candidate) (rank.Outcome, error)
}

// Source supplies position-filtered active candidates.
type Source interface {
	Candidates(ctx context.Context, pos model.Position) ([]model.Candidate, error)
}

// Sink records resolved import outcomes.
type Sink interface {
	Put(ctx context.Context, res model.Resolution) error
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Resolver) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Resolver) {
		if l != nil {
			w.logger = l
		}
	}
}

// Resolver is one worker loop consuming the import queue.
type Resolver struct {
	queue   queue.Queue
	source  Source
	matcher Matcher
	sink    Sink
	name    string

	done chan struct{}

	logger logger.Logger
}

// NewResolver creates a worker with configuration options.
func NewResolver(q queue.Queue, source Source, matcher Matcher, sink Sink, opts ...Option) *Resolver {
	w := &Resolver{
		queue:   q,
		source:  source,
		matcher: matcher,
		sink:    sink,
		name:    "resolver",
		done:    make(chan struct{}),
		logger:  logger.Get().Named("resolver"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run consumes the queue until ctx is canceled or the queue closes.
func (w *Resolver) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.resolve(ctx, req); err != nil {
				w.logger.Error(ctx, "import resolution failed",
					logger.String("importID", req.ImportID),
					logger.Error(err),
				)
			}
		}
	}
}

// resolve handles a single import request end to end.
func (w *Resolver) resolve(ctx context.Context, req queue.Request) error {
	start := time.Now()
	defer func() {
		metrics.RecordResolveLatency(float64(time.Since(start).Milliseconds()))
	}()

	candidates, err := w.source.Candidates(ctx, req.Position)
	if err != nil {
		metrics.RecordResolveError()
		return fmt.Errorf("fetching candidates for import %s: %w", req.ImportID, err)
	}

	outcome, err := w.matcher.Best(ctx, req.Label, candidates)
	if err != nil {
		metrics.RecordResolveError()
		return fmt.Errorf("matching import %s: %w", req.ImportID, err)
	}

	res := model.Resolution{
		ImportID:   req.ImportID,
		Label:      req.Label,
		Outcome:    string(outcome.Kind),
		ResolvedAt: time.Now().UTC(),
	}
	if outcome.Kind != rank.OutcomeNoMatch {
		res.PlayerID = outcome.Best.Candidate.ID
		res.PlayerName = outcome.Best.Candidate.DisplayName
		res.Score = outcome.Best.Score
	}

	if err := w.sink.Put(ctx, res); err != nil {
		metrics.RecordResolveError()
		return fmt.Errorf("recording resolution for import %s: %w", req.ImportID, err)
	}

	metrics.RecordResolveOutcome(res.Outcome)
	w.logger.Debug(ctx, "import resolved",
		logger.String("importID", req.ImportID),
		logger.String("outcome", res.Outcome),
		logger.Int("score", res.Score),
	)
	return nil
}

// Pool manages a fixed set of resolvers sharing one queue.
type Pool struct {
	workers []*Resolver
	logger  logger.Logger
}

// NewPool creates a pool of workerCount resolvers.
func NewPool(workerCount int, q queue.Queue, source Source, matcher Matcher, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Resolver, workerCount),
		logger:  logger.Get().Named("resolver-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewResolver(q, source, matcher, sink,
			WithName("resolver-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all resolvers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop waits for every resolver to drain, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "resolver shutdown timed out",
				logger.String("worker", w.name),
			)
		}
	}
}
