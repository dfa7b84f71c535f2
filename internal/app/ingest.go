package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/gachastat/internal/adapters/mq/queue"
	"github.com/okian/gachastat/internal/adapters/mq/worker"
	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/dedupe"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/internal/domain/types"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"
)

const ingestOp = "service.fetch_and_persist_all_history"

// FetchAndPersistAllHistory pulls every history page from the remote, writes
// the batches to the store through a single background writer and returns
// the whole stored history flattened into draw events.
//
// The writer is always drained and joined before this returns, on success
// and on failure.
func (s *Service) FetchAndPersistAllHistory(ctx context.Context) ([]model.DrawEvent, error) {
	if s.store == nil || s.fetcher == nil {
		return nil, ErrNotConfigured
	}
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	start := time.Now()
	report := types.RunReport{RunID: uuid.NewString()}
	log := s.logger.With(logger.String("run_id", report.RunID))

	events, err := s.ingest(ctx, log, &report)

	report.DurationMs = time.Since(start).Milliseconds()
	report.Events = len(events)
	if err != nil {
		report.Error = err.Error()
	}
	s.finishRun(ctx, log, report, err)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) ingest(ctx context.Context, log logger.Logger, report *types.RunReport) ([]model.DrawEvent, error) {
	if err := s.store.Init(ctx); err != nil {
		return nil, err
	}

	q := queue.NewPageQueue(queue.WithCapacity(s.queueCapacity))
	persister := worker.NewPersister(q, s.store, worker.WithLogger(log))
	if err := persister.Start(ctx); err != nil {
		return nil, apperr.WrapKind(ingestOp, apperr.ErrChannel, err)
	}

	loopErr := s.fetchPages(ctx, log, q, persister, report)

	// Close then join on every path so no write is left running.
	_ = q.Close()
	workerErr := persister.Wait()
	report.Batches = persister.Stats().Batches

	switch {
	case loopErr != nil:
		return nil, loopErr
	case workerErr != nil:
		return nil, apperr.WrapKind(ingestOp, apperr.ErrStore, workerErr)
	}

	batches, err := s.store.AllBatches(ctx)
	if err != nil {
		return nil, err
	}
	return model.Flatten(batches), nil
}

// fetchPages runs the producer loop. The page count is taken from the first
// response only.
func (s *Service) fetchPages(ctx context.Context, log logger.Logger, q *queue.PageQueue, persister *worker.Persister, report *types.RunReport) error {
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	totalPages := -1

	for n := 1; ; n++ {
		page, err := s.fetcher.FetchPage(ctx, n)
		if err != nil {
			log.Warn(ctx, "page fetch failed", logger.Int("page", n), logger.Error(err))
			return err
		}
		report.Pages++
		if totalPages < 0 {
			totalPages = page.TotalPages
			report.TotalPages = totalPages
			log.Info(ctx, "history sync started", logger.Int("total_pages", totalPages))
		}

		for _, b := range page.Batches {
			if seen.SeenAndRecord(ctx, b.Timestamp) {
				report.Duplicates++
			}
		}

		if err := q.Send(ctx, page.Batches); err != nil {
			if werr := persister.Err(); werr != nil {
				err = fmt.Errorf("%w: %w", err, werr)
			}
			return apperr.WrapKind(ingestOp, apperr.ErrChannel, err)
		}

		if totalPages == 0 || page.Current >= totalPages {
			return nil
		}
		if n >= totalPages {
			return apperr.WrapKind(ingestOp, apperr.ErrSerialization,
				fmt.Errorf("%w: page %d reported current %d of %d", ErrPagination, n, page.Current, totalPages))
		}
	}
}

func (s *Service) finishRun(ctx context.Context, log logger.Logger, report types.RunReport, err error) {
	metrics.RecordIngestRun(err == nil, float64(report.DurationMs))
	metrics.RecordDuplicateBatches(report.Duplicates)

	fields := []logger.Field{
		logger.Int("pages", report.Pages),
		logger.Int("total_pages", report.TotalPages),
		logger.Int("batches", report.Batches),
		logger.Int("duplicates", report.Duplicates),
		logger.Int64("duration_ms", report.DurationMs),
	}
	if err != nil {
		metrics.RecordError("pipeline", apperr.KindName(err))
		log.Error(ctx, "history sync failed", append(fields, logger.Error(err))...)
	} else {
		log.Info(ctx, "history sync finished", append(fields, logger.Int("events", report.Events))...)
	}

	s.mu.Lock()
	s.lastRun = &report
	s.mu.Unlock()
}
