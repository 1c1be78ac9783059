// Package effect manages time-bounded buffs. Activation writes one immutable
// row with a precomputed expiry; nothing ever updates or deletes effect rows,
// and no background job sweeps them. An effect is live exactly when
// expires_at is after the clock of the request asking.
package effect

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

// Engine defines effect activation and read operations
type Engine interface {
	// Activate creates an active effect for the item inside the caller's
	// transaction. The expiry is computed from the item's duration, falling
	// back to domain.DefaultEffectDuration.
	Activate(ctx context.Context, tx repository.Tx, userID string, item *domain.ItemDefinition, now time.Time) (*domain.ActiveEffect, error)
	// ListLive returns the user's effects still in force at now
	ListLive(ctx context.Context, userID string, now time.Time) ([]domain.ActiveEffect, error)
	// ScoreMultiplier returns the product of the user's live score
	// multipliers, or 1 when none are live
	ScoreMultiplier(ctx context.Context, userID string, now time.Time) (float64, error)
}

type engine struct {
	repo repository.Effect
}

// NewEngine creates an effect engine
func NewEngine(repo repository.Effect) Engine {
	return &engine{repo: repo}
}

func (e *engine) Activate(ctx context.Context, tx repository.Tx, userID string, item *domain.ItemDefinition, now time.Time) (*domain.ActiveEffect, error) {
	behavior, ok := item.EffectKind.Behavior()
	if !ok || !behavior.Standing {
		return nil, fmt.Errorf("%w: item %q has no standing effect", domain.ErrInvalidInput, item.Key)
	}

	duration := domain.DefaultEffectDuration
	if item.DurationSeconds != nil && *item.DurationSeconds > 0 {
		duration = time.Duration(*item.DurationSeconds) * time.Second
	}

	eff := domain.ActiveEffect{
		UserID:               userID,
		SourceItemID:         item.ID,
		Kind:                 item.EffectKind,
		ExpiresAt:            now.Add(duration),
		Multiplier:           item.Multiplier,
		TimeExtensionMinutes: item.TimeExtensionMinutes,
		CreatedAt:            now,
	}

	id, err := tx.InsertEffect(ctx, eff)
	if err != nil {
		return nil, fmt.Errorf("failed to insert effect: %w", err)
	}
	eff.ID = id

	logger.FromContext(ctx).Info("Effect activated",
		"userID", userID, "kind", eff.Kind, "expiresAt", eff.ExpiresAt)
	return &eff, nil
}

func (e *engine) ListLive(ctx context.Context, userID string, now time.Time) ([]domain.ActiveEffect, error) {
	effects, err := e.repo.ListLiveEffects(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list effects: %w", err)
	}
	return effects, nil
}

func (e *engine) ScoreMultiplier(ctx context.Context, userID string, now time.Time) (float64, error) {
	effects, err := e.repo.ListLiveEffects(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list effects: %w", err)
	}

	multiplier := 1.0
	for _, eff := range effects {
		if eff.Kind == domain.EffectScoreMultiplier && eff.Multiplier != nil {
			multiplier *= *eff.Multiplier
		}
	}
	return multiplier, nil
}
