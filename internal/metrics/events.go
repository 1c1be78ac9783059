package metrics

import (
	"context"

	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types the collector tracks
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.TypeMealUploaded,
		event.TypeStreakMilestone,
		event.TypeItemPurchased,
		event.TypeItemUsed,
		event.TypeQuestCompleted,
		event.TypeAttackResolved,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.TypeItemPurchased:
		payload, err := event.DecodePayload[event.ItemPurchasedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		ItemsPurchased.WithLabelValues(payload.ItemKey).Inc()
		PointsSpent.Add(float64(payload.PricePaid))

	case event.TypeItemUsed:
		payload, err := event.DecodePayload[event.ItemUsedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		ItemsUsed.WithLabelValues(payload.ItemKey).Inc()

	case event.TypeAttackResolved:
		payload, err := event.DecodePayload[event.AttackResolvedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		AttacksResolved.WithLabelValues(payload.Outcome).Inc()

	case event.TypeQuestCompleted:
		payload, err := event.DecodePayload[event.QuestCompletedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		QuestsCompleted.WithLabelValues(payload.QuestKey).Inc()
		PointsAwarded.Add(float64(payload.ScoreReward))

	case event.TypeStreakMilestone:
		StreakMilestones.Inc()
	}

	return nil
}
