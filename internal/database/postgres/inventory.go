package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlGetInventory = `
		SELECT user_id, item_id, quantity, last_used_at
		FROM user_inventory
		WHERE user_id = $1
		ORDER BY item_id`

	// The row lock here is what serializes concurrent uses of the same
	// (user, item): the cooldown check happens after this select, so two
	// simultaneous requests cannot both pass it.
	sqlGetInventoryEntryForUpdate = `
		SELECT user_id, item_id, quantity, last_used_at
		FROM user_inventory
		WHERE user_id = $1 AND item_id = $2
		FOR UPDATE`

	sqlUpsertInventoryEntry = `
		INSERT INTO user_inventory (user_id, item_id, quantity, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_used_at = EXCLUDED.last_used_at`

	sqlInsertPurchase = `
		INSERT INTO purchase_log (user_id, item_id, price_paid, created_at)
		VALUES ($1, $2, $3, $4)`
)

// GetInventory returns all inventory rows for a user
func (s *Store) GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error) {
	rows, err := s.db.Query(ctx, sqlGetInventory, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	defer rows.Close()

	var entries []domain.InventoryEntry
	for rows.Next() {
		var e domain.InventoryEntry
		if err := rows.Scan(&e.UserID, &e.ItemID, &e.Quantity, &e.LastUsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetInventoryEntryForUpdate locks the inventory row. Returns nil when the
// user has never owned the item.
func (t *Tx) GetInventoryEntryForUpdate(ctx context.Context, userID string, itemID int) (*domain.InventoryEntry, error) {
	var e domain.InventoryEntry
	err := t.tx.QueryRow(ctx, sqlGetInventoryEntryForUpdate, userID, itemID).
		Scan(&e.UserID, &e.ItemID, &e.Quantity, &e.LastUsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock inventory entry: %w", err)
	}
	return &e, nil
}

// UpsertInventoryEntry writes an inventory row
func (t *Tx) UpsertInventoryEntry(ctx context.Context, entry domain.InventoryEntry) error {
	if _, err := t.tx.Exec(ctx, sqlUpsertInventoryEntry, entry.UserID, entry.ItemID, entry.Quantity, entry.LastUsedAt); err != nil {
		return fmt.Errorf("failed to upsert inventory entry: %w", err)
	}
	return nil
}

// InsertPurchase appends one purchase log row
func (t *Tx) InsertPurchase(ctx context.Context, userID string, itemID, pricePaid int, at time.Time) error {
	if _, err := t.tx.Exec(ctx, sqlInsertPurchase, userID, itemID, pricePaid, at); err != nil {
		return fmt.Errorf("failed to insert purchase log: %w", err)
	}
	return nil
}
