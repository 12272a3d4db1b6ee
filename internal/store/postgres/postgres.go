// Package postgres implements store.Store on pgx. All queries go through the
// prepared statements registered by internal/db; the same statement names
// resolve inside transactions because pgx prepares per connection.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelhq/padel-data/internal/store"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed implementation of store.Store.
type Store struct {
	q    querier
	pool *pgxpool.Pool // nil inside a transaction
}

// New wraps a connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{q: pool, pool: pool}
}

func (s *Store) Players() store.PlayerStore           { return playerStore{s.q} }
func (s *Store) Videos() store.VideoStore             { return videoStore{s.q} }
func (s *Store) Analyses() store.AnalysisStore        { return analysisStore{s.q} }
func (s *Store) Matches() store.MatchStore            { return matchStore{s.q} }
func (s *Store) MatchPlayers() store.MatchPlayerStore { return matchPlayerStore{s.q} }
func (s *Store) Metrics() store.SummaryMetricsStore   { return metricsStore{s.q} }

// InTx runs fn inside a single database transaction. The store passed to fn
// issues every query through the transaction's connection, so all writes
// commit or roll back together. Nested calls reuse the enclosing transaction.
func (s *Store) InTx(ctx context.Context, fn func(store.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
