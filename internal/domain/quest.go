package domain

import "time"

// Quest type constants map domain events onto trackable objectives
const (
	QuestTypeMealUpload      = "meal_upload"      // Submit X meal photos
	QuestTypeStreakMilestone = "streak_milestone" // Reach X streak milestones
	QuestTypeItemPurchase    = "item_purchase"    // Buy X items from the shop
	QuestTypeItemUse         = "item_use"         // Use X items
)

// Quest is a tracked objective tied to a domain-event type
type Quest struct {
	ID          int    `json:"quest_id"`
	Key         string `json:"quest_key"`
	Type        string `json:"quest_type"`
	Description string `json:"description"`
	Requirement int    `json:"requirement"`
	ScoreReward int    `json:"score_reward"`
	Active      bool   `json:"active"`
}

// UserQuest is a user's progress on an accepted quest. Progress only
// increases and completion never reverts.
type UserQuest struct {
	UserID      string     `json:"user_id"`
	QuestID     int        `json:"quest_id"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	AcceptedAt  time.Time  `json:"accepted_at"`

	// Joined quest fields
	QuestKey    string `json:"quest_key,omitempty"`
	QuestType   string `json:"quest_type,omitempty"`
	Requirement int    `json:"requirement,omitempty"`
	ScoreReward int    `json:"score_reward,omitempty"`
}
