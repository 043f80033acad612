// Package storage persists credits_users records. Every operation runs on a
// small bounded set of background workers and hands back a future, so no
// caller ever blocks on I/O.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/infra/sqlutil"
)

const defaultWorkers = 2

type Store struct {
	db      *sql.DB
	dialect dialect
	workers *semaphore.Weighted
	size    int

	mu       sync.RWMutex
	disabled bool
	inflight sync.WaitGroup
	once     sync.Once
}

// Open connects to the configured database and creates the schema if it
// does not exist yet.
func Open(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	d, err := dialectFor(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	dsn, err := d.dsn(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pool := sqlutil.Pool{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	if !d.numbered {
		// One writer at a time; WAL readers share the file.
		pool = sqlutil.Pool{MaxOpenConns: max(cfg.Workers, defaultWorkers)}
	}

	db, err := sqlutil.OpenDB(ctx, d.driver, dsn, pool)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", d.name, err)
	}

	s := newStore(db, d, cfg.Workers)

	err = s.bootstrap(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	slog.Info("storage opened", "type", d.name, "workers", s.size)

	return s, nil
}

func newStore(db *sql.DB, d dialect, workers int) *Store {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Store{
		db:      db,
		dialect: d,
		workers: semaphore.NewWeighted(int64(workers)),
		size:    workers,
	}
}

func (s *Store) bootstrap(ctx context.Context) error {
	stmts, err := s.dialect.schema()
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return nil
}

// Type names the dialect in use.
func (s *Store) Type() string { return s.dialect.name }

// Disable stops accepting operations, waits for the running ones and closes
// the pool. Only the first call does anything.
//
// Continuations of this store's futures run on a worker that still counts
// as in flight, so calling Disable from one of them never returns.
func (s *Store) Disable() {
	s.once.Do(func() {
		s.mu.Lock()
		s.disabled = true
		s.mu.Unlock()

		s.inflight.Wait()

		err := s.db.Close()
		if err != nil {
			slog.Error("close storage", "error", err)
			return
		}

		slog.Info("storage disabled", "type", s.dialect.name)
	})
}

// submit runs fn on a worker and settles the returned future with its result.
func submit[T any](ctx context.Context, s *Store, op string, fn func(context.Context) (T, error)) *future.Future[T] {
	s.mu.RLock()
	if s.disabled {
		s.mu.RUnlock()
		return future.Failed[T](fmt.Errorf("%s: %w", op, ErrDisabled))
	}
	s.inflight.Add(1)
	s.mu.RUnlock()

	f := future.New[T]()

	go func() {
		defer s.inflight.Done()

		// The worker is released before completion so continuations can
		// issue further operations.
		f.Complete(run(ctx, s, op, fn))
	}()

	return f
}

func run[T any](ctx context.Context, s *Store, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	err := s.workers.Acquire(ctx, 1)
	if err != nil {
		return zero, fmt.Errorf("%s: wait for worker: %w", op, err)
	}
	defer s.workers.Release(1)

	v, err := fn(ctx)
	if err != nil {
		slog.Error("storage operation failed", "op", op, "error", err)
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}
