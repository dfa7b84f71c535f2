// Package worker runs the single persistence consumer of the page queue.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gachastat/internal/adapters/mq/queue"
	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("persister already started")

// Upserter writes one page of batches.
type Upserter interface {
	Upsert(ctx context.Context, batches []model.DrawBatch) error
}

// Source is the consumer side of the page queue.
type Source interface {
	Receive() <-chan queue.Page
	MarkConsumerGone()
	Len() int
}

// Stats summarizes what the persister wrote.
type Stats struct {
	Pages   int
	Batches int
}

// Persister drains a Source into an Upserter, one page at a time and in
// arrival order. It stops at the first write error.
type Persister struct {
	source Source
	store  Upserter
	name   string

	started atomic.Bool
	done    chan struct{}

	mu    sync.Mutex
	err   error
	stats Stats

	logger logger.Logger
}

// NewPersister creates a persister with configuration options.
func NewPersister(source Source, store Upserter, opts ...Option) *Persister {
	p := &Persister{
		source: source,
		store:  store,
		name:   "persister",
		done:   make(chan struct{}),
		logger: logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the consumer goroutine.
func (p *Persister) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go p.run(ctx)
	return nil
}

func (p *Persister) run(ctx context.Context) {
	defer close(p.done)
	defer p.source.MarkConsumerGone()

	for page := range p.source.Receive() {
		start := time.Now()
		if err := p.store.Upsert(ctx, page); err != nil {
			p.mu.Lock()
			p.err = err
			p.mu.Unlock()

			metrics.RecordError("worker", apperr.KindName(err))
			p.logger.Error(ctx, "persisting page failed",
				logger.String("worker", p.name),
				logger.Int("batches", len(page)),
				logger.Error(err))
			return
		}
		metrics.RecordPagePersisted(len(page), float64(time.Since(start).Milliseconds()))
		p.source.Len()

		p.mu.Lock()
		p.stats.Pages++
		p.stats.Batches += len(page)
		p.mu.Unlock()
	}
	p.logger.Debug(ctx, "queue drained", logger.String("worker", p.name))
}

// Wait blocks until the consumer goroutine exits and returns the write
// error that stopped it, if any. Wait on a persister that was never started
// returns nil.
func (p *Persister) Wait() error {
	if !p.started.Load() {
		return nil
	}
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Err returns the write error recorded so far without waiting.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stats returns the pages and batches written so far.
func (p *Persister) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
