package domain

// Event type constants used across the application for event bus
// subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "item.used")
const (
	// EventTypeMealUploaded is published by the meal submission flow when a
	// meal photo passes intake
	EventTypeMealUploaded = "meal.uploaded"

	// EventTypeStreakMilestone is published when a streak completion crosses
	// a milestone threshold
	EventTypeStreakMilestone = "streak.milestone"

	// EventTypeItemPurchased is published when an item is bought from the shop
	EventTypeItemPurchased = "item.purchased"

	// EventTypeItemUsed is published when an item is consumed
	EventTypeItemUsed = "item.used"

	// EventTypeQuestCompleted is published when a quest auto-completes
	EventTypeQuestCompleted = "quest.completed"

	// EventTypeAttackResolved is published after a streak attack resolves
	EventTypeAttackResolved = "attack.resolved"
)
