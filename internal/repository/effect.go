package repository

import (
	"context"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

// Effect defines the read surface for active effects. Expiry is enforced in
// the query, not by a sweeper.
type Effect interface {
	ListLiveEffects(ctx context.Context, userID string, now time.Time) ([]domain.ActiveEffect, error)
}
