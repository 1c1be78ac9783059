package quest

import (
	"context"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/logger"
)

// EventHandler advances quests in response to domain events
type EventHandler struct {
	svc Service
}

// NewEventHandler creates a quest event handler
func NewEventHandler(svc Service) *EventHandler {
	return &EventHandler{svc: svc}
}

// Register subscribes the handler to every quest-driving event type
func (h *EventHandler) Register(bus event.Bus) {
	bus.Subscribe(event.TypeMealUploaded, h.handleMealUploaded)
	bus.Subscribe(event.TypeStreakMilestone, h.handleStreakMilestone)
	bus.Subscribe(event.TypeItemPurchased, h.handleItemPurchased)
	bus.Subscribe(event.TypeItemUsed, h.handleItemUsed)
}

func (h *EventHandler) handleMealUploaded(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.MealUploadedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	return h.advance(ctx, payload.UserID, domain.QuestTypeMealUpload)
}

func (h *EventHandler) handleStreakMilestone(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.StreakMilestonePayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	return h.advance(ctx, payload.UserID, domain.QuestTypeStreakMilestone)
}

func (h *EventHandler) handleItemPurchased(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ItemPurchasedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	return h.advance(ctx, payload.UserID, domain.QuestTypeItemPurchase)
}

func (h *EventHandler) handleItemUsed(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ItemUsedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	return h.advance(ctx, payload.UserID, domain.QuestTypeItemUse)
}

func (h *EventHandler) advance(ctx context.Context, userID, questType string) error {
	result, err := h.svc.Advance(ctx, userID, questType, 1)
	if err != nil {
		return err
	}
	if result.Updated > 0 {
		logger.FromContext(ctx).Debug("Quests advanced",
			"userID", userID, "questType", questType,
			"updated", result.Updated, "completed", result.Completed)
	}
	return nil
}
