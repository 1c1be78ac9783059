// Package postgres implements the repository interfaces on PostgreSQL via
// pgx. All queries are hand-written SQL constants kept next to the methods
// that run them.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kettleby/habitforge/internal/repository"
)

// Store implements the repository interfaces against a pgx pool
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Tx implements repository.Tx on a pgx transaction
type Tx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Interface conformance checks
var (
	_ repository.Economy = (*Store)(nil)
	_ repository.Ledger  = (*Store)(nil)
	_ repository.Effect  = (*Store)(nil)
	_ repository.Streak  = (*Store)(nil)
	_ repository.Quest   = (*Store)(nil)
	_ repository.Tx      = (*Tx)(nil)
)
