package repository

import (
	"context"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

// Quest defines the persistence surface for quest tracking
type Quest interface {
	GetQuestByID(ctx context.Context, questID int) (*domain.Quest, error)
	// GetUserQuestsByType returns the user's accepted, active, incomplete
	// quests whose quest type matches, with quest fields joined in
	GetUserQuestsByType(ctx context.Context, userID, questType string) ([]domain.UserQuest, error)
	ListUserQuests(ctx context.Context, userID string) ([]domain.UserQuest, error)
	InsertUserQuest(ctx context.Context, userID string, questID int, at time.Time) error
	BeginTx(ctx context.Context) (Tx, error)
}
