package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlGetAccount = `
		SELECT user_id, points
		FROM score_accounts
		WHERE user_id = $1`

	// Account rows are created lazily; the insert is a no-op once the row
	// exists, after which the locked select serializes concurrent spenders.
	sqlEnsureAccount = `
		INSERT INTO score_accounts (user_id, points)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`

	sqlGetAccountForUpdate = `
		SELECT user_id, points
		FROM score_accounts
		WHERE user_id = $1
		FOR UPDATE`

	sqlUpdateAccountBalance = `
		UPDATE score_accounts
		SET points = $2
		WHERE user_id = $1`

	sqlInsertTransaction = `
		INSERT INTO score_transactions (user_id, amount, reason, source_ref, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	sqlListTransactions = `
		SELECT tx_id, user_id, amount, reason, source_ref, created_at
		FROM score_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, tx_id DESC
		LIMIT $2`
)

// GetAccount retrieves a score account (unlocked read). A user without an
// account row reads as a zero balance.
func (s *Store) GetAccount(ctx context.Context, userID string) (*domain.ScoreAccount, error) {
	var acct domain.ScoreAccount
	err := s.db.QueryRow(ctx, sqlGetAccount, userID).Scan(&acct.UserID, &acct.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.ScoreAccount{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

// ListTransactions returns the newest ledger rows for a user
func (s *Store) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.ScoreTransaction, error) {
	rows, err := s.db.Query(ctx, sqlListTransactions, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.ScoreTransaction
	for rows.Next() {
		var txn domain.ScoreTransaction
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Reason, &txn.SourceRef, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// GetAccountForUpdate locks the account row, creating it at zero first if the
// user has never held points
func (t *Tx) GetAccountForUpdate(ctx context.Context, userID string) (*domain.ScoreAccount, error) {
	if _, err := t.tx.Exec(ctx, sqlEnsureAccount, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}

	var acct domain.ScoreAccount
	if err := t.tx.QueryRow(ctx, sqlGetAccountForUpdate, userID).Scan(&acct.UserID, &acct.Points); err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &acct, nil
}

// UpdateAccountBalance writes the new balance for a previously locked account
func (t *Tx) UpdateAccountBalance(ctx context.Context, userID string, points int) error {
	if _, err := t.tx.Exec(ctx, sqlUpdateAccountBalance, userID, points); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// InsertTransaction appends one ledger row
func (t *Tx) InsertTransaction(ctx context.Context, txn domain.ScoreTransaction) error {
	if _, err := t.tx.Exec(ctx, sqlInsertTransaction, txn.UserID, txn.Amount, txn.Reason, txn.SourceRef, txn.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
