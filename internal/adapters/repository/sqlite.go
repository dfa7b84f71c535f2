package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DBFile is the store's file name inside the data directory.
const DBFile = "gachadb"

const (
	driverName         = "sqlite"
	defaultBusyTimeout = 5 * time.Second
)

const (
	createTableStmt = `CREATE TABLE IF NOT EXISTS gacha (
	ts    INTEGER NOT NULL PRIMARY KEY,
	pool  TEXT    NOT NULL,
	chars TEXT    NOT NULL
)`
	upsertStmt       = `INSERT OR REPLACE INTO gacha (ts, pool, chars) VALUES (?, ?, ?)`
	selectAllStmt    = `SELECT ts, pool, chars FROM gacha ORDER BY ts DESC`
	selectInPoolStmt = `SELECT ts, pool, chars FROM gacha WHERE pool = ? ORDER BY ts DESC`
	countStmt        = `SELECT COUNT(*) FROM gacha`
)

// batchRow is the persisted layout; chars holds the JSON-encoded draw list.
type batchRow struct {
	TS    int64  `db:"ts"`
	Pool  string `db:"pool"`
	Chars string `db:"chars"`
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db          *sqlx.DB
	busyTimeout time.Duration
	closed      atomic.Bool
	logger      logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the SQLite file at path. The schema is not
// created until Init is called.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	const op = "repository.open"
	s := newStore(opts...)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, wrap(op, err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, s.busyTimeout.Milliseconds())
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, wrap(op, err)
	}
	// One connection: the persistence worker owns it during writes and
	// reads happen only after the worker has been joined.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap(op, err)
	}
	s.db = db
	s.logger.Debug(ctx, "record store opened", logger.String("path", path))
	return s, nil
}

// NewWithDB wraps an existing connection, e.g. a sqlmock handle in tests.
func NewWithDB(db *sqlx.DB, opts ...Option) *SQLiteStore {
	s := newStore(opts...)
	s.db = db
	return s
}

func newStore(opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		busyTimeout: defaultBusyTimeout,
		logger:      logger.Get().Named("repository"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the gacha table when missing.
func (s *SQLiteStore) Init(ctx context.Context) error {
	const op = "repository.init"
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, createTableStmt); err != nil {
		return wrap(op, err)
	}
	return nil
}

// Upsert replaces batches by timestamp inside one transaction.
func (s *SQLiteStore) Upsert(ctx context.Context, batches []model.DrawBatch) (err error) {
	const op = "repository.upsert"
	if s.closed.Load() {
		return ErrClosed
	}
	if len(batches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn(ctx, "rollback failed", logger.Error(rbErr))
			}
		}
	}()

	stmt, err := tx.PreparexContext(ctx, upsertStmt)
	if err != nil {
		return wrap(op, err)
	}
	defer stmt.Close()

	for _, b := range batches {
		chars, mErr := json.Marshal(b.Characters)
		if mErr != nil {
			return wrap(op, mErr)
		}
		if _, err = stmt.ExecContext(ctx, b.Timestamp, b.Pool, string(chars)); err != nil {
			return wrap(op, fmt.Errorf("batch %d: %w", b.Timestamp, err))
		}
	}
	if err = tx.Commit(); err != nil {
		return wrap(op, err)
	}
	return nil
}

// AllBatches returns every batch ordered by timestamp descending.
func (s *SQLiteStore) AllBatches(ctx context.Context) ([]model.DrawBatch, error) {
	return s.query(ctx, "repository.all_batches", selectAllStmt)
}

// BatchesInPool returns the batches of one pool ordered by timestamp descending.
func (s *SQLiteStore) BatchesInPool(ctx context.Context, pool string) ([]model.DrawBatch, error) {
	return s.query(ctx, "repository.batches_in_pool", selectInPoolStmt, pool)
}

func (s *SQLiteStore) query(ctx context.Context, op, q string, args ...any) ([]model.DrawBatch, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var rows []batchRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, wrap(op, err)
	}

	batches := make([]model.DrawBatch, 0, len(rows))
	for _, r := range rows {
		var chars []model.DrawResult
		if err := json.Unmarshal([]byte(r.Chars), &chars); err != nil {
			return nil, wrap(op, fmt.Errorf("%w: ts %d: %w", ErrDecode, r.TS, err))
		}
		batches = append(batches, model.DrawBatch{Timestamp: r.TS, Pool: r.Pool, Characters: chars})
	}
	return batches, nil
}

// Count returns the number of stored batches.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	const op = "repository.count"
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.GetContext(ctx, &n, countStmt); err != nil {
		return 0, wrap(op, err)
	}
	metrics.UpdateStoredBatches(n)
	return n, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return wrap("repository.close", err)
	}
	return nil
}
