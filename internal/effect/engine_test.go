package effect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/repository/fake"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func multiplierItem() *domain.ItemDefinition {
	return &domain.ItemDefinition{
		ID:              1,
		Key:             "double_points",
		Category:        domain.CategoryConsumable,
		EffectKind:      domain.EffectScoreMultiplier,
		DurationSeconds: intPtr(7200),
		Multiplier:      floatPtr(2.0),
		IsActive:        true,
	}
}

func TestActivate(t *testing.T) {
	store := fake.NewStore()
	eng := NewEngine(store)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	eff, err := eng.Activate(ctx, tx, "user-1", multiplierItem(), testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, domain.EffectScoreMultiplier, eff.Kind)
	assert.Equal(t, testTime.Add(2*time.Hour), eff.ExpiresAt)
	assert.NotZero(t, eff.ID)
	require.NotNil(t, eff.Multiplier)
	assert.Equal(t, 2.0, *eff.Multiplier)
}

func TestActivateDefaultDuration(t *testing.T) {
	store := fake.NewStore()
	eng := NewEngine(store)
	ctx := context.Background()

	item := multiplierItem()
	item.DurationSeconds = nil

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	eff, err := eng.Activate(ctx, tx, "user-1", item, testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, testTime.Add(domain.DefaultEffectDuration), eff.ExpiresAt)
}

func TestActivateRejectsNonStandingKind(t *testing.T) {
	store := fake.NewStore()
	eng := NewEngine(store)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	item := multiplierItem()
	item.EffectKind = domain.EffectStreakDecrease
	_, err = eng.Activate(ctx, tx, "user-1", item, testTime)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	item.EffectKind = domain.EffectNone
	_, err = eng.Activate(ctx, tx, "user-1", item, testTime)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListLiveExcludesExpired(t *testing.T) {
	store := fake.NewStore()
	eng := NewEngine(store)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = eng.Activate(ctx, tx, "user-1", multiplierItem(), testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	live, err := eng.ListLive(ctx, "user-1", testTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, live, 1)

	// Expiry boundary is exclusive: an effect is dead at its own expires_at
	live, err = eng.ListLive(ctx, "user-1", testTime.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestScoreMultiplier(t *testing.T) {
	store := fake.NewStore()
	eng := NewEngine(store)
	ctx := context.Background()

	mult, err := eng.ScoreMultiplier(ctx, "user-1", testTime)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mult)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = eng.Activate(ctx, tx, "user-1", multiplierItem(), testTime)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	mult, err = eng.ScoreMultiplier(ctx, "user-1", testTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2.0, mult)
}
