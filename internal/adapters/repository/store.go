// Package repository persists draw batches keyed by their timestamp.
package repository

import (
	"context"

	"github.com/okian/gachastat/internal/domain/model"
)

// Store provides durable, idempotent access to draw history.
type Store interface {
	// Init creates the backing schema. Safe to call repeatedly.
	Init(ctx context.Context) error

	// Upsert inserts or replaces each batch by timestamp. All batches of one
	// call are applied atomically; the last write for a timestamp wins.
	Upsert(ctx context.Context, batches []model.DrawBatch) error

	// AllBatches returns every stored batch, most recent first.
	AllBatches(ctx context.Context) ([]model.DrawBatch, error)

	// BatchesInPool returns the batches whose pool equals pool exactly,
	// most recent first.
	BatchesInPool(ctx context.Context, pool string) ([]model.DrawBatch, error)

	// Count returns the number of stored batches.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}
