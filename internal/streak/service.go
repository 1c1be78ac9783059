// Package streak tracks consecutive-day habit completion. The current streak
// moves up on completion and down under attack; the longest streak is a
// high-water mark that only ever rises.
package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

// CompletionResult reports a recorded completion
type CompletionResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Milestone     bool `json:"milestone"`
}

// Service defines streak operations
type Service interface {
	Get(ctx context.Context, userID string) (*domain.StreakCounter, error)
	// RecordCompletion increments the user's streak and publishes a milestone
	// event each time the streak crosses the configured interval
	RecordCompletion(ctx context.Context, userID string) (*CompletionResult, error)
}

type service struct {
	repo              repository.Streak
	bus               event.Bus
	milestoneInterval int
	now               func() time.Time
}

// NewService creates a streak service. milestoneInterval is the streak length
// between milestone events, e.g. 7 fires at 7, 14, 21.
func NewService(repo repository.Streak, bus event.Bus, milestoneInterval int, now func() time.Time) Service {
	return &service{
		repo:              repo,
		bus:               bus,
		milestoneInterval: milestoneInterval,
		now:               now,
	}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.StreakCounter, error) {
	sc, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return sc, nil
}

func (s *service) RecordCompletion(ctx context.Context, userID string) (*CompletionResult, error) {
	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	sc, err := tx.GetStreakForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock streak: %w", err)
	}

	current := sc.CurrentStreak + 1
	longest := sc.LongestStreak
	if current > longest {
		longest = current
	}

	if err := tx.UpdateStreak(ctx, userID, current, longest, now); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	milestone := s.milestoneInterval > 0 && current%s.milestoneInterval == 0
	if milestone {
		if err := s.bus.Publish(ctx, event.NewStreakMilestoneEvent(userID, current, current)); err != nil {
			// The streak is already committed; a lost event only delays quest
			// progress
			logger.FromContext(ctx).Error("Failed to publish milestone event",
				"userID", userID, "streak", current, "error", err)
		}
	}

	logger.FromContext(ctx).Info("Streak completion recorded",
		"userID", userID, "currentStreak", current, "milestone", milestone)

	return &CompletionResult{
		CurrentStreak: current,
		LongestStreak: longest,
		Milestone:     milestone,
	}, nil
}
