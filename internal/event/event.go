package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

// Type represents the type of an event
type Type string

// Event type constants mirror the domain event names
const (
	TypeMealUploaded    = Type(domain.EventTypeMealUploaded)
	TypeStreakMilestone = Type(domain.EventTypeStreakMilestone)
	TypeItemPurchased   = Type(domain.EventTypeItemPurchased)
	TypeItemUsed        = Type(domain.EventTypeItemUsed)
	TypeQuestCompleted  = Type(domain.EventTypeQuestCompleted)
	TypeAttackResolved  = Type(domain.EventTypeAttackResolved)
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// MealUploadedPayloadV1 is the typed payload for meal upload events
type MealUploadedPayloadV1 struct {
	UserID    string `json:"user_id"`
	MealID    string `json:"meal_id"`
	Timestamp int64  `json:"timestamp"`
}

// StreakMilestonePayloadV1 is the typed payload for streak milestone events
type StreakMilestonePayloadV1 struct {
	UserID    string `json:"user_id"`
	Streak    int    `json:"streak"`
	Milestone int    `json:"milestone"`
}

// ItemPurchasedPayloadV1 is the typed payload for shop purchase events
type ItemPurchasedPayloadV1 struct {
	UserID    string `json:"user_id"`
	ItemKey   string `json:"item_key"`
	PricePaid int    `json:"price_paid"`
	Timestamp int64  `json:"timestamp"`
}

// ItemUsedPayloadV1 is the typed payload for item use events
type ItemUsedPayloadV1 struct {
	UserID       string `json:"user_id"`
	ItemKey      string `json:"item_key"`
	TargetUserID string `json:"target_user_id,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// QuestCompletedPayloadV1 is the typed payload for quest completion events
type QuestCompletedPayloadV1 struct {
	UserID      string `json:"user_id"`
	QuestKey    string `json:"quest_key"`
	ScoreReward int    `json:"score_reward"`
}

// AttackResolvedPayloadV1 is the typed payload for attack resolution events
type AttackResolvedPayloadV1 struct {
	AttackerID string `json:"attacker_id"`
	TargetID   string `json:"target_id"`
	Outcome    string `json:"outcome"`
	Damage     int    `json:"damage"`
}

// Type-safe event constructors

// NewMealUploadedEvent creates a new meal upload event
func NewMealUploadedEvent(userID, mealID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeMealUploaded,
		Payload: MealUploadedPayloadV1{
			UserID:    userID,
			MealID:    mealID,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewStreakMilestoneEvent creates a new streak milestone event
func NewStreakMilestoneEvent(userID string, streak, milestone int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeStreakMilestone,
		Payload: StreakMilestonePayloadV1{
			UserID:    userID,
			Streak:    streak,
			Milestone: milestone,
		},
	}
}

// NewItemPurchasedEvent creates a new shop purchase event
func NewItemPurchasedEvent(userID, itemKey string, pricePaid int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeItemPurchased,
		Payload: ItemPurchasedPayloadV1{
			UserID:    userID,
			ItemKey:   itemKey,
			PricePaid: pricePaid,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewItemUsedEvent creates a new item use event
func NewItemUsedEvent(userID, itemKey, targetUserID, outcome string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeItemUsed,
		Payload: ItemUsedPayloadV1{
			UserID:       userID,
			ItemKey:      itemKey,
			TargetUserID: targetUserID,
			Outcome:      outcome,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewQuestCompletedEvent creates a new quest completion event
func NewQuestCompletedEvent(userID, questKey string, scoreReward int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeQuestCompleted,
		Payload: QuestCompletedPayloadV1{
			UserID:      userID,
			QuestKey:    questKey,
			ScoreReward: scoreReward,
		},
	}
}

// NewAttackResolvedEvent creates a new attack resolution event
func NewAttackResolvedEvent(attackerID, targetID, outcome string, damage int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TypeAttackResolved,
		Payload: AttackResolvedPayloadV1{
			AttackerID: attackerID,
			TargetID:   targetID,
			Outcome:    outcome,
			Damage:     damage,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
