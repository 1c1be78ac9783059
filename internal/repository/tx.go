package repository

import (
	"context"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

// Tx defines the interface for transactional operations. Every row the core
// mutates is read FOR UPDATE through this interface first, so concurrent
// requests serialize on the rows they touch instead of on a global lock.
type Tx interface {
	// Ledger
	GetAccountForUpdate(ctx context.Context, userID string) (*domain.ScoreAccount, error)
	UpdateAccountBalance(ctx context.Context, userID string, points int) error
	InsertTransaction(ctx context.Context, txn domain.ScoreTransaction) error

	// Inventory
	GetInventoryEntryForUpdate(ctx context.Context, userID string, itemID int) (*domain.InventoryEntry, error)
	UpsertInventoryEntry(ctx context.Context, entry domain.InventoryEntry) error
	InsertPurchase(ctx context.Context, userID string, itemID, pricePaid int, at time.Time) error

	// Effects
	InsertEffect(ctx context.Context, effect domain.ActiveEffect) (int64, error)
	HasLiveEffect(ctx context.Context, userID string, kind domain.EffectKind, now time.Time) (bool, error)

	// Streaks
	GetStreakForUpdate(ctx context.Context, userID string) (*domain.StreakCounter, error)
	UpdateStreak(ctx context.Context, userID string, current, longest int, at time.Time) error

	// Quests
	GetUserQuestForUpdate(ctx context.Context, userID string, questID int) (*domain.UserQuest, error)
	UpdateUserQuestProgress(ctx context.Context, userID string, questID, progress int) error
	CompleteUserQuest(ctx context.Context, userID string, questID int, at time.Time) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
