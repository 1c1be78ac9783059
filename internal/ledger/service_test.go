package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/repository/fake"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCredit(t *testing.T) {
	store := fake.NewStore()
	store.SetBalance("user-1", 10)
	svc := NewService(store)

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	newBalance, err := svc.Credit(ctx, tx, "user-1", 25, domain.TxReasonQuestReward, "meal_streak_7", testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, 35, newBalance)
	assert.Equal(t, 35, store.Accounts["user-1"])

	require.Len(t, store.Txns, 1)
	assert.Equal(t, 25, store.Txns[0].Amount)
	assert.Equal(t, domain.TxReasonQuestReward, store.Txns[0].Reason)
	assert.Equal(t, "meal_streak_7", store.Txns[0].SourceRef)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	store := fake.NewStore()
	svc := NewService(store)

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, amount := range []int{0, -5} {
		_, err := svc.Credit(ctx, tx, "user-1", amount, domain.TxReasonAdjustment, "", testTime)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Empty(t, store.Txns)
}

func TestDebit(t *testing.T) {
	store := fake.NewStore()
	store.SetBalance("user-1", 100)
	svc := NewService(store)

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	newBalance, err := svc.Debit(ctx, tx, "user-1", 40, domain.TxReasonPurchase, "double_points", testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, 60, newBalance)
	require.Len(t, store.Txns, 1)
	assert.Equal(t, -40, store.Txns[0].Amount)
}

func TestDebitInsufficientFunds(t *testing.T) {
	store := fake.NewStore()
	store.SetBalance("user-1", 30)
	svc := NewService(store)

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = svc.Debit(ctx, tx, "user-1", 31, domain.TxReasonPurchase, "double_points", testTime)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Balance and ledger untouched
	assert.Equal(t, 30, store.Accounts["user-1"])
	assert.Empty(t, store.Txns)
}

func TestDebitExactBalance(t *testing.T) {
	store := fake.NewStore()
	store.SetBalance("user-1", 30)
	svc := NewService(store)

	ctx := context.Background()
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	newBalance, err := svc.Debit(ctx, tx, "user-1", 30, domain.TxReasonPurchase, "streak_shield", testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, 0, newBalance)
}

func TestLedgerConservation(t *testing.T) {
	store := fake.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	ops := []struct {
		credit bool
		amount int
	}{
		{true, 100}, {false, 30}, {true, 15}, {false, 70}, {true, 5},
	}
	for _, op := range ops {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		if op.credit {
			_, err = svc.Credit(ctx, tx, "user-1", op.amount, domain.TxReasonAdjustment, "", testTime)
		} else {
			_, err = svc.Debit(ctx, tx, "user-1", op.amount, domain.TxReasonPurchase, "", testTime)
		}
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
	}

	sum := 0
	for _, txn := range store.Txns {
		sum += txn.Amount
	}
	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, sum, balance)
	assert.Equal(t, 20, balance)
}

func TestTransactionsLimit(t *testing.T) {
	store := fake.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		_, err = svc.Credit(ctx, tx, "user-1", 10, domain.TxReasonAdjustment, "", testTime)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
	}

	txns, err := svc.Transactions(ctx, "user-1", 3)
	require.NoError(t, err)
	assert.Len(t, txns, 3)

	// Zero limit falls back to the default
	txns, err = svc.Transactions(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, txns, 5)
}

func TestBeginTxErrorSurfaces(t *testing.T) {
	store := fake.NewStore()
	store.BeginTxErr = errors.New("connection refused")

	_, err := store.BeginTx(context.Background())
	assert.Error(t, err)
}
