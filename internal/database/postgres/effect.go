package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlInsertEffect = `
		INSERT INTO active_effects (user_id, source_item_id, kind, expires_at, multiplier, time_extension_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING effect_id`

	// Liveness is strictly expires_at > now; expired rows stay in place and
	// simply stop matching
	sqlHasLiveEffect = `
		SELECT EXISTS (
			SELECT 1 FROM active_effects
			WHERE user_id = $1 AND kind = $2 AND expires_at > $3
		)`

	sqlListLiveEffects = `
		SELECT effect_id, user_id, source_item_id, kind, expires_at, multiplier, time_extension_minutes, created_at
		FROM active_effects
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY expires_at`
)

// ListLiveEffects returns the user's effects still in force at now
func (s *Store) ListLiveEffects(ctx context.Context, userID string, now time.Time) ([]domain.ActiveEffect, error) {
	rows, err := s.db.Query(ctx, sqlListLiveEffects, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list live effects: %w", err)
	}
	defer rows.Close()

	var effects []domain.ActiveEffect
	for rows.Next() {
		var e domain.ActiveEffect
		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceItemID, &e.Kind, &e.ExpiresAt, &e.Multiplier, &e.TimeExtensionMinutes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan effect: %w", err)
		}
		effects = append(effects, e)
	}
	return effects, rows.Err()
}

// InsertEffect appends one active effect row
func (t *Tx) InsertEffect(ctx context.Context, effect domain.ActiveEffect) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, sqlInsertEffect,
		effect.UserID,
		effect.SourceItemID,
		effect.Kind,
		effect.ExpiresAt,
		effect.Multiplier,
		effect.TimeExtensionMinutes,
		effect.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert effect: %w", err)
	}
	return id, nil
}

// HasLiveEffect reports whether any effect of the kind is live at now
func (t *Tx) HasLiveEffect(ctx context.Context, userID string, kind domain.EffectKind, now time.Time) (bool, error) {
	var exists bool
	if err := t.tx.QueryRow(ctx, sqlHasLiveEffect, userID, kind, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check live effect: %w", err)
	}
	return exists, nil
}
