// Package queue defines the contract for enqueuing and consuming roster
// import requests.
package queue

import (
	"context"
	"sync"

	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/pkg/metrics"
)

// defaultCapacity bounds the in-memory import backlog.
const defaultCapacity = 50_000

// Request is the payload type flowing through the queue.
type Request = model.ImportRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request to the queue.
	// Returns false if the queue is full or closed; nothing was enqueued.
	Enqueue(ctx context.Context, req Request) bool

	// Dequeue returns a channel delivering requests as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the current number of queued requests.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, Enqueue returns false and
	// the dequeue channel drains then closes.
	Close() error
}

// Option applies a configuration option to the MemoryQueue.
type Option func(*MemoryQueue)

// WithCapacity sets the maximum number of buffered requests.
func WithCapacity(capacity int) Option {
	return func(q *MemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// MemoryQueue implements Queue using a buffered channel.
type MemoryQueue struct {
	requests chan Request
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue creates an in-memory queue with configuration options.
func NewMemoryQueue(opts ...Option) *MemoryQueue {
	q := &MemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a request without blocking. Backpressure is reported to the
// caller as false rather than absorbed here.
func (q *MemoryQueue) Enqueue(_ context.Context, req Request) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.requests <- req:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.requests))
		return true
	default:
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue exposes the underlying channel for worker consumption.
func (q *MemoryQueue) Dequeue(_ context.Context) <-chan Request {
	return q.requests
}

// Len returns the current backlog size.
func (q *MemoryQueue) Len(_ context.Context) int {
	return len(q.requests)
}

// Close shuts down the queue. Idempotent.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.requests)
	return nil
}
