package service

import (
	"context"
	"time"

	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/internal/domain/stats"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"
)

// HistoryForPool returns the stored draws of one pool, newest batch first.
// An empty pool name returns the whole history.
func (s *Service) HistoryForPool(ctx context.Context, pool string) ([]model.DrawEvent, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	if err := s.store.Init(ctx); err != nil {
		return nil, err
	}

	var (
		batches []model.DrawBatch
		err     error
	)
	if pool == "" {
		batches, err = s.store.AllBatches(ctx)
	} else {
		batches, err = s.store.BatchesInPool(ctx, pool)
	}
	if err != nil {
		return nil, err
	}
	return model.Flatten(batches), nil
}

// ComputeStatistics aggregates events, optionally restricted to one pool.
func (s *Service) ComputeStatistics(ctx context.Context, events []model.DrawEvent, pool *string) (stats.Statistics, error) {
	start := time.Now()
	res, err := stats.Compute(events, pool, s.statsOpts...)

	scope := stats.ScopeTotal
	if pool != nil {
		scope = stats.ScopePool
	}
	metrics.RecordStatistics(scope.String(), err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.logger.Warn(ctx, "statistics failed", logger.Int("events", len(events)), logger.Error(err))
		return stats.Statistics{}, err
	}
	return res, nil
}

// StoredStatistics computes statistics over the stored history.
func (s *Service) StoredStatistics(ctx context.Context, pool *string) (stats.Statistics, error) {
	events, err := s.HistoryForPool(ctx, "")
	if err != nil {
		return stats.Statistics{}, err
	}
	return s.ComputeStatistics(ctx, events, pool)
}
