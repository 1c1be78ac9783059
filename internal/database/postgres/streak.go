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
	sqlGetStreak = `
		SELECT user_id, current_streak, longest_streak, updated_at
		FROM streaks
		WHERE user_id = $1`

	sqlEnsureStreak = `
		INSERT INTO streaks (user_id, current_streak, longest_streak)
		VALUES ($1, 0, 0)
		ON CONFLICT (user_id) DO NOTHING`

	// Concurrent attacks against the same target serialize on this lock so
	// every decrement is computed from a fresh value
	sqlGetStreakForUpdate = `
		SELECT user_id, current_streak, longest_streak, updated_at
		FROM streaks
		WHERE user_id = $1
		FOR UPDATE`

	sqlUpdateStreak = `
		UPDATE streaks
		SET current_streak = $2, longest_streak = $3, updated_at = $4
		WHERE user_id = $1`
)

// GetStreak retrieves a streak counter (unlocked read). A user without a row
// reads as a zero streak.
func (s *Store) GetStreak(ctx context.Context, userID string) (*domain.StreakCounter, error) {
	var sc domain.StreakCounter
	err := s.db.QueryRow(ctx, sqlGetStreak, userID).
		Scan(&sc.UserID, &sc.CurrentStreak, &sc.LongestStreak, &sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.StreakCounter{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return &sc, nil
}

// GetStreakForUpdate locks the streak row, creating it at zero first if the
// user has never recorded a completion
func (t *Tx) GetStreakForUpdate(ctx context.Context, userID string) (*domain.StreakCounter, error) {
	if _, err := t.tx.Exec(ctx, sqlEnsureStreak, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure streak row: %w", err)
	}

	var sc domain.StreakCounter
	if err := t.tx.QueryRow(ctx, sqlGetStreakForUpdate, userID).
		Scan(&sc.UserID, &sc.CurrentStreak, &sc.LongestStreak, &sc.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to lock streak row: %w", err)
	}
	return &sc, nil
}

// UpdateStreak writes new counter values for a previously locked streak row
func (t *Tx) UpdateStreak(ctx context.Context, userID string, current, longest int, at time.Time) error {
	if _, err := t.tx.Exec(ctx, sqlUpdateStreak, userID, current, longest, at); err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}
