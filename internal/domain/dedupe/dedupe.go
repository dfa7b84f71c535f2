// Package dedupe tracks batch timestamps already seen during an ingestion run.
//
// The store is idempotent on its own; the deduper only lets the pipeline
// notice when the remote shifts history between page requests and hands out
// the same batch twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen batch timestamps.
type Deduper interface {
	// SeenAndRecord atomically checks if ts was seen and records it if not.
	// Returns true if ts was already seen.
	SeenAndRecord(ctx context.Context, ts int64) bool

	// Size returns the number of tracked timestamps.
	Size() int64
}

// inMemoryDeduper is a map-backed Deduper. In bounded mode the oldest
// recorded timestamp is evicted first, using a ring of insertion order.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[int64]struct{}
	order   []int64 // ring buffer of insertion order, bounded mode only
	next    int
	maxSize int // 0 or negative means unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[int64]struct{})
	if d.maxSize > 0 {
		d.order = make([]int64, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, ts int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[ts]; ok {
		return true
	}

	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			d.order = append(d.order, ts)
		} else {
			delete(d.seen, d.order[d.next])
			d.size.Add(-1)
			d.order[d.next] = ts
			d.next = (d.next + 1) % d.maxSize
		}
	}
	d.seen[ts] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
