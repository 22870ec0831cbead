// Package store owns the Postgres connection pool, schema migrations, and
// the background garbage-collection sweep for expired rows. Individual
// entity access lives in package repo, layered on top of the pool this
// package exposes.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"authd/internal/logging"
)

// Store wraps a pgx connection pool, grounded on the teacher's
// pkg/database/providers/postgres.PostgresProvider.
type Store struct {
	Pool *pgxpool.Pool
	log  *logging.Logger
}

// Connect opens a pool against databaseURL and pings it before returning.
func Connect(ctx context.Context, databaseURL string, log *logging.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 25
	cfg.MinConns = 5
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{Pool: pool, log: log}, nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.Pool.Close()
}

// Health reports whether the pool can still reach the database.
func (s *Store) Health(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}
