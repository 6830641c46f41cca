// Package dedupe tracks already-seen import ids so a roster import
// submitted twice is acknowledged without being resolved twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker; old ids are evicted FIFO once full.
const defaultMaxSize = 100_000

// Tracker records seen import ids to ensure at-most-once resolution.
type Tracker interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true if id was already seen. Thread-safe.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing the import to be retried. Used when
	// an import was marked seen but could not be enqueued (backpressure).
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

// Option applies a configuration option to the in-memory tracker.
type Option func(*memoryTracker)

// WithMaxSize bounds the number of ids kept. A size <= 0 means unbounded.
func WithMaxSize(size int) Option {
	return func(t *memoryTracker) {
		t.maxSize = size
	}
}

// memoryTracker implements Tracker with a map plus a FIFO ring of ids for
// bounded eviction. Unbounded mode (maxSize <= 0) skips the ring entirely.
type memoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order; only used in bounded mode
	head    int      // next eviction slot in ring
	maxSize int
	size    atomic.Int64
}

// NewTracker creates an in-memory tracker with configuration options.
func NewTracker(opts ...Option) Tracker {
	t := &memoryTracker{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]struct{})
	if t.maxSize > 0 {
		t.ring = make([]string, 0, t.maxSize)
	}
	return t
}

func (t *memoryTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}

	if t.maxSize > 0 {
		if len(t.ring) < t.maxSize {
			t.ring = append(t.ring, id)
		} else {
			// Full: evict the oldest id and reuse its slot.
			old := t.ring[t.head]
			if old != "" {
				delete(t.seen, old)
				t.size.Add(-1)
			}
			t.ring[t.head] = id
			t.head = (t.head + 1) % t.maxSize
		}
	}

	t.seen[id] = struct{}{}
	t.size.Add(1)
	return false
}

func (t *memoryTracker) Unrecord(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; !ok {
		return
	}
	delete(t.seen, id)
	t.size.Add(-1)
	// The ring slot keeps the stale id until eviction reaches it; eviction
	// tolerates ids that are no longer in the map.
	for i, v := range t.ring {
		if v == id {
			t.ring[i] = ""
			break
		}
	}
}

func (t *memoryTracker) Size() int64 {
	return t.size.Load()
}
