package repository

import (
	"context"

	"github.com/kettleby/habitforge/internal/domain"
)

// Ledger defines the read-only persistence surface for score reporting.
// Balance mutations go through Tx so they stay inside the caller's
// transaction.
type Ledger interface {
	GetAccount(ctx context.Context, userID string) (*domain.ScoreAccount, error)
	ListTransactions(ctx context.Context, userID string, limit int) ([]domain.ScoreTransaction, error)
}
