// Package ledger owns every point balance mutation. Credits and debits run
// inside a transaction the caller provides, so a purchase's debit and its
// inventory grant commit or fail as one unit. Every mutation appends exactly
// one transaction row; balances are never written without one.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

// DefaultTransactionLimit caps history reads when the caller does not specify
const DefaultTransactionLimit = 50

// MaxTransactionLimit is the hard cap on history page size
const MaxTransactionLimit = 200

// Service defines score ledger operations
type Service interface {
	// Credit adds points inside the caller's transaction and returns the new
	// balance
	Credit(ctx context.Context, tx repository.Tx, userID string, amount int, reason, sourceRef string, at time.Time) (int, error)
	// Debit removes points inside the caller's transaction and returns the
	// new balance. Fails with domain.ErrInsufficientFunds rather than going
	// negative.
	Debit(ctx context.Context, tx repository.Tx, userID string, amount int, reason, sourceRef string, at time.Time) (int, error)
	Balance(ctx context.Context, userID string) (int, error)
	Transactions(ctx context.Context, userID string, limit int) ([]domain.ScoreTransaction, error)
}

type service struct {
	repo repository.Ledger
}

// NewService creates a ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

func (s *service) Credit(ctx context.Context, tx repository.Tx, userID string, amount int, reason, sourceRef string, at time.Time) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit of %d", domain.ErrInvalidAmount, amount)
	}

	acct, err := tx.GetAccountForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}

	newBalance := acct.Points + amount
	if err := s.apply(ctx, tx, userID, newBalance, amount, reason, sourceRef, at); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info("Points credited",
		"userID", userID, "amount", amount, "reason", reason, "newBalance", newBalance)
	return newBalance, nil
}

func (s *service) Debit(ctx context.Context, tx repository.Tx, userID string, amount int, reason, sourceRef string, at time.Time) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit of %d", domain.ErrInvalidAmount, amount)
	}

	acct, err := tx.GetAccountForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}

	if acct.Points < amount {
		return 0, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientFunds, acct.Points, amount)
	}

	newBalance := acct.Points - amount
	if err := s.apply(ctx, tx, userID, newBalance, -amount, reason, sourceRef, at); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info("Points debited",
		"userID", userID, "amount", amount, "reason", reason, "newBalance", newBalance)
	return newBalance, nil
}

// apply writes the balance and its ledger row together
func (s *service) apply(ctx context.Context, tx repository.Tx, userID string, newBalance, amount int, reason, sourceRef string, at time.Time) error {
	if err := tx.UpdateAccountBalance(ctx, userID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if err := tx.InsertTransaction(ctx, domain.ScoreTransaction{
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		SourceRef: sourceRef,
		CreatedAt: at,
	}); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (s *service) Balance(ctx context.Context, userID string) (int, error) {
	acct, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	return acct.Points, nil
}

func (s *service) Transactions(ctx context.Context, userID string, limit int) ([]domain.ScoreTransaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	txns, err := s.repo.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}
