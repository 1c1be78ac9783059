package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlItemColumns = `item_id, item_key, display_name, item_description, price,
		category, effect_kind, duration_seconds, cooldown_seconds,
		effect_multiplier, time_extension_minutes, is_active`

	sqlGetItemByKey = `
		SELECT ` + sqlItemColumns + `
		FROM items
		WHERE item_key = $1`

	sqlListActiveItems = `
		SELECT ` + sqlItemColumns + `
		FROM items
		WHERE is_active
		ORDER BY item_key`
)

func scanItem(row pgx.Row) (*domain.ItemDefinition, error) {
	var item domain.ItemDefinition
	err := row.Scan(
		&item.ID,
		&item.Key,
		&item.DisplayName,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.EffectKind,
		&item.DurationSeconds,
		&item.CooldownSeconds,
		&item.Multiplier,
		&item.TimeExtensionMinutes,
		&item.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByKey retrieves a catalog item by key. Returns nil when no row exists.
func (s *Store) GetItemByKey(ctx context.Context, itemKey string) (*domain.ItemDefinition, error) {
	item, err := scanItem(s.db.QueryRow(ctx, sqlGetItemByKey, itemKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item by key: %w", err)
	}
	return item, nil
}

// ListActiveItems returns the visible catalog
func (s *Store) ListActiveItems(ctx context.Context) ([]domain.ItemDefinition, error) {
	rows, err := s.db.Query(ctx, sqlListActiveItems)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []domain.ItemDefinition
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
