package streak

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/repository/fake"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testTime }

func TestRecordCompletion(t *testing.T) {
	store := fake.NewStore()
	store.SetStreak("user-1", 4, 10)
	svc := NewService(store, event.NewMemoryBus(), 7, fixedNow)

	result, err := svc.RecordCompletion(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 5, result.CurrentStreak)
	assert.Equal(t, 10, result.LongestStreak)
	assert.False(t, result.Milestone)
	assert.Equal(t, 5, store.Streaks["user-1"].CurrentStreak)
}

func TestRecordCompletionRaisesHighWaterMark(t *testing.T) {
	store := fake.NewStore()
	store.SetStreak("user-1", 10, 10)
	svc := NewService(store, event.NewMemoryBus(), 7, fixedNow)

	result, err := svc.RecordCompletion(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 11, result.CurrentStreak)
	assert.Equal(t, 11, result.LongestStreak)
}

func TestRecordCompletionFirstEver(t *testing.T) {
	store := fake.NewStore()
	svc := NewService(store, event.NewMemoryBus(), 7, fixedNow)

	result, err := svc.RecordCompletion(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)
}

func TestRecordCompletionMilestoneEvent(t *testing.T) {
	store := fake.NewStore()
	store.SetStreak("user-1", 6, 6)
	bus := event.NewMemoryBus()

	var milestones []event.StreakMilestonePayloadV1
	bus.Subscribe(event.TypeStreakMilestone, func(_ context.Context, e event.Event) error {
		payload, err := event.DecodePayload[event.StreakMilestonePayloadV1](e.Payload)
		if err != nil {
			return err
		}
		milestones = append(milestones, payload)
		return nil
	})

	svc := NewService(store, bus, 7, fixedNow)
	result, err := svc.RecordCompletion(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, result.Milestone)
	require.Len(t, milestones, 1)
	assert.Equal(t, "user-1", milestones[0].UserID)
	assert.Equal(t, 7, milestones[0].Streak)

	// The next completion is not a milestone
	result, err = svc.RecordCompletion(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, result.Milestone)
	assert.Len(t, milestones, 1)
}

func TestGetUnknownUserReadsZero(t *testing.T) {
	store := fake.NewStore()
	svc := NewService(store, event.NewMemoryBus(), 7, fixedNow)

	sc, err := svc.Get(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Equal(t, 0, sc.CurrentStreak)
	assert.Equal(t, 0, sc.LongestStreak)
}
