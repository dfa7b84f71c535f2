// Package queue hands fetched pages from the producer to the persistence
// worker.
//
// The queue is bounded: a producer that gets ahead of the worker blocks in
// Send until a slot frees up.
package queue

import (
	"context"
	"sync"

	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/metrics"
)

const defaultCapacity = 4

// Page is the unit flowing through the queue: the batch list of one
// history page.
type Page = []model.DrawBatch

// PageQueue is a bounded FIFO of pages with a single consumer.
type PageQueue struct {
	pages    chan Page
	capacity int

	mu     sync.RWMutex
	closed bool

	gone     chan struct{}
	goneOnce sync.Once
}

// NewPageQueue creates a queue with configuration options.
func NewPageQueue(opts ...Option) *PageQueue {
	q := &PageQueue{
		capacity: defaultCapacity,
		gone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pages = make(chan Page, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Send enqueues page, blocking while the queue is full. It fails once the
// queue is closed, the consumer has gone away or ctx is done.
func (q *PageQueue) Send(ctx context.Context, page Page) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordError("queue", "closed")
		return ErrClosed
	}
	select {
	case <-q.gone:
		metrics.RecordError("queue", "consumer_gone")
		return ErrConsumerGone
	default:
	}

	select {
	case q.pages <- page:
		metrics.UpdateQueueDepth(len(q.pages))
		// A page enqueued after the consumer left is never read.
		select {
		case <-q.gone:
			metrics.RecordError("queue", "consumer_gone")
			return ErrConsumerGone
		default:
		}
		return nil
	case <-q.gone:
		metrics.RecordError("queue", "consumer_gone")
		return ErrConsumerGone
	case <-ctx.Done():
		metrics.RecordError("queue", "context_cancelled")
		return ctx.Err()
	}
}

// Receive returns the channel pages are delivered on. It is closed by Close
// once every queued page has been received.
func (q *PageQueue) Receive() <-chan Page {
	return q.pages
}

// MarkConsumerGone tells blocked and future senders that nobody will read
// the queue any more.
func (q *PageQueue) MarkConsumerGone() {
	q.goneOnce.Do(func() { close(q.gone) })
}

// Len returns the number of pages waiting to be received.
func (q *PageQueue) Len() int {
	n := len(q.pages)
	metrics.UpdateQueueDepth(n)
	return n
}

// Cap returns the queue capacity.
func (q *PageQueue) Cap() int { return q.capacity }

// Close stops accepting pages. Pages already queued are still delivered.
func (q *PageQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.pages)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *PageQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
