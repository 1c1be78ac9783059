// Package quest tracks user objectives driven by domain events. Each quest a
// user has accepted advances when a matching event arrives; crossing the
// requirement completes the quest and pays its score reward exactly once, in
// the same transaction that records the completion.
package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

// AdvanceResult reports how many quests moved and completed
type AdvanceResult struct {
	Updated   int `json:"updated"`
	Completed int `json:"completed"`
}

// Service defines quest tracking operations
type Service interface {
	// Advance applies progress to every accepted, incomplete quest of the
	// given type. Each quest advances in its own transaction so one failure
	// cannot roll back another quest's payout.
	Advance(ctx context.Context, userID, questType string, amount int) (*AdvanceResult, error)
	// Accept enrolls the user in a quest
	Accept(ctx context.Context, userID string, questID int) error
	// ListProgress returns all of the user's accepted quests
	ListProgress(ctx context.Context, userID string) ([]domain.UserQuest, error)
}

type service struct {
	repo   repository.Quest
	ledger ledger.Service
	bus    event.Bus
	now    func() time.Time
}

// NewService creates a quest service
func NewService(repo repository.Quest, ledgerSvc ledger.Service, bus event.Bus, now func() time.Time) Service {
	return &service{
		repo:   repo,
		ledger: ledgerSvc,
		bus:    bus,
		now:    now,
	}
}

func (s *service) Advance(ctx context.Context, userID, questType string, amount int) (*AdvanceResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: advance of %d", domain.ErrInvalidAmount, amount)
	}

	quests, err := s.repo.GetUserQuestsByType(ctx, userID, questType)
	if err != nil {
		return nil, fmt.Errorf("failed to get quests: %w", err)
	}

	result := &AdvanceResult{}
	for _, uq := range quests {
		moved, completed, err := s.advanceOne(ctx, userID, uq, amount)
		if err != nil {
			// Keep going; the remaining quests should still advance
			logger.FromContext(ctx).Error("Failed to advance quest",
				"userID", userID, "questID", uq.QuestID, "error", err)
			continue
		}
		if moved {
			result.Updated++
		}
		if completed {
			result.Completed++
		}
	}
	return result, nil
}

// advanceOne moves a single quest forward in its own transaction. Completion
// and the reward credit commit together. moved is false when the locked row
// turned out to be gone or already completed and nothing was written.
func (s *service) advanceOne(ctx context.Context, userID string, uq domain.UserQuest, amount int) (moved, completed bool, err error) {
	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return false, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Re-read under lock; another request may have completed it already
	locked, err := tx.GetUserQuestForUpdate(ctx, userID, uq.QuestID)
	if err != nil {
		return false, false, fmt.Errorf("failed to lock quest: %w", err)
	}
	if locked == nil || locked.Completed {
		return false, false, nil
	}

	progress := locked.Progress + amount
	if progress > uq.Requirement {
		progress = uq.Requirement
	}

	if err := tx.UpdateUserQuestProgress(ctx, userID, uq.QuestID, progress); err != nil {
		return false, false, fmt.Errorf("failed to update progress: %w", err)
	}

	completed = progress >= uq.Requirement
	if completed {
		if err := tx.CompleteUserQuest(ctx, userID, uq.QuestID, now); err != nil {
			return false, false, fmt.Errorf("failed to complete quest: %w", err)
		}
		if uq.ScoreReward > 0 {
			if _, err := s.ledger.Credit(ctx, tx, userID, uq.ScoreReward, domain.TxReasonQuestReward, uq.QuestKey, now); err != nil {
				return false, false, fmt.Errorf("failed to credit reward: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, false, fmt.Errorf("failed to commit: %w", err)
	}

	if completed {
		logger.FromContext(ctx).Info("Quest completed",
			"userID", userID, "questKey", uq.QuestKey, "reward", uq.ScoreReward)
		if err := s.bus.Publish(ctx, event.NewQuestCompletedEvent(userID, uq.QuestKey, uq.ScoreReward)); err != nil {
			logger.FromContext(ctx).Error("Failed to publish quest completion",
				"userID", userID, "questKey", uq.QuestKey, "error", err)
		}
	}
	return true, completed, nil
}

func (s *service) Accept(ctx context.Context, userID string, questID int) error {
	q, err := s.repo.GetQuestByID(ctx, questID)
	if err != nil {
		return fmt.Errorf("failed to get quest: %w", err)
	}
	if q == nil || !q.Active {
		return fmt.Errorf("%w: quest %d", domain.ErrQuestNotFound, questID)
	}

	if err := s.repo.InsertUserQuest(ctx, userID, questID, s.now()); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Quest accepted", "userID", userID, "questKey", q.Key)
	return nil
}

func (s *service) ListProgress(ctx context.Context, userID string) ([]domain.UserQuest, error) {
	quests, err := s.repo.ListUserQuests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	return quests, nil
}
