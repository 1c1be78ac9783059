package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var received []Event
	bus.Subscribe(TypeItemPurchased, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := bus.Publish(context.Background(), NewItemPurchasedEvent("user-1", "double_points", 50))
	require.NoError(t, err)

	require.Len(t, received, 1)
	payload, err := DecodePayload[ItemPurchasedPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, "double_points", payload.ItemKey)
	assert.Equal(t, 50, payload.PricePaid)
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	err := bus.Publish(context.Background(), NewMealUploadedEvent("user-1", "meal-9"))
	assert.NoError(t, err)
}

func TestMemoryBusHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewMemoryBus()

	calls := 0
	bus.Subscribe(TypeItemUsed, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("handler failed")
	})
	bus.Subscribe(TypeItemUsed, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), NewItemUsedEvent("user-1", "sabotage", "user-2", "STREAK_DECREASED"))
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDecodePayloadFromMap(t *testing.T) {
	// Serialized payloads arrive as generic maps and decode via JSON
	raw := map[string]interface{}{
		"user_id":   "user-1",
		"streak":    14,
		"milestone": 7,
	}
	payload, err := DecodePayload[StreakMilestonePayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, 14, payload.Streak)
	assert.Equal(t, 7, payload.Milestone)
}
