package repository

import (
	"context"

	"github.com/kettleby/habitforge/internal/domain"
)

// Streak defines the persistence surface for streak counters
type Streak interface {
	GetStreak(ctx context.Context, userID string) (*domain.StreakCounter, error)
	BeginTx(ctx context.Context) (Tx, error)
}
