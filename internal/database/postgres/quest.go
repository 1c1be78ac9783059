package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlGetQuestByID = `
		SELECT quest_id, quest_key, quest_type, description, requirement, score_reward, active
		FROM quests
		WHERE quest_id = $1`

	sqlUserQuestColumns = `uq.user_id, uq.quest_id, uq.progress, uq.completed, uq.completed_at, uq.accepted_at,
		q.quest_key, q.quest_type, q.requirement, q.score_reward`

	sqlGetUserQuestsByType = `
		SELECT ` + sqlUserQuestColumns + `
		FROM user_quests uq
		JOIN quests q ON q.quest_id = uq.quest_id
		WHERE uq.user_id = $1
		  AND q.quest_type = $2
		  AND q.active
		  AND NOT uq.completed
		ORDER BY uq.quest_id`

	sqlListUserQuests = `
		SELECT ` + sqlUserQuestColumns + `
		FROM user_quests uq
		JOIN quests q ON q.quest_id = uq.quest_id
		WHERE uq.user_id = $1
		ORDER BY uq.accepted_at`

	sqlInsertUserQuest = `
		INSERT INTO user_quests (user_id, quest_id, progress, accepted_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id, quest_id) DO NOTHING`

	sqlGetUserQuestForUpdate = `
		SELECT user_id, quest_id, progress, completed, completed_at, accepted_at
		FROM user_quests
		WHERE user_id = $1 AND quest_id = $2
		FOR UPDATE`

	sqlUpdateUserQuestProgress = `
		UPDATE user_quests
		SET progress = $3
		WHERE user_id = $1 AND quest_id = $2`

	sqlCompleteUserQuest = `
		UPDATE user_quests
		SET completed = TRUE, completed_at = $3
		WHERE user_id = $1 AND quest_id = $2`
)

func scanUserQuest(row pgx.Row) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := row.Scan(
		&uq.UserID,
		&uq.QuestID,
		&uq.Progress,
		&uq.Completed,
		&uq.CompletedAt,
		&uq.AcceptedAt,
		&uq.QuestKey,
		&uq.QuestType,
		&uq.Requirement,
		&uq.ScoreReward,
	)
	if err != nil {
		return nil, err
	}
	return &uq, nil
}

// GetQuestByID retrieves a quest definition. Returns nil when no row exists.
func (s *Store) GetQuestByID(ctx context.Context, questID int) (*domain.Quest, error) {
	var q domain.Quest
	err := s.db.QueryRow(ctx, sqlGetQuestByID, questID).
		Scan(&q.ID, &q.Key, &q.Type, &q.Description, &q.Requirement, &q.ScoreReward, &q.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return &q, nil
}

// GetUserQuestsByType returns accepted, active, incomplete quests of one type
func (s *Store) GetUserQuestsByType(ctx context.Context, userID, questType string) ([]domain.UserQuest, error) {
	rows, err := s.db.Query(ctx, sqlGetUserQuestsByType, userID, questType)
	if err != nil {
		return nil, fmt.Errorf("failed to get user quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.UserQuest
	for rows.Next() {
		uq, err := scanUserQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user quest: %w", err)
		}
		quests = append(quests, *uq)
	}
	return quests, rows.Err()
}

// ListUserQuests returns all of a user's accepted quests with quest fields joined
func (s *Store) ListUserQuests(ctx context.Context, userID string) ([]domain.UserQuest, error) {
	rows, err := s.db.Query(ctx, sqlListUserQuests, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.UserQuest
	for rows.Next() {
		uq, err := scanUserQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user quest: %w", err)
		}
		quests = append(quests, *uq)
	}
	return quests, rows.Err()
}

// InsertUserQuest accepts a quest for a user. A duplicate acceptance reports
// domain.ErrAlreadyAccepted.
func (s *Store) InsertUserQuest(ctx context.Context, userID string, questID int, at time.Time) error {
	tag, err := s.db.Exec(ctx, sqlInsertUserQuest, userID, questID, at)
	if err != nil {
		return fmt.Errorf("failed to insert user quest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyAccepted
	}
	return nil
}

// GetUserQuestForUpdate locks one user quest row. Returns nil when the user
// never accepted the quest.
func (t *Tx) GetUserQuestForUpdate(ctx context.Context, userID string, questID int) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := t.tx.QueryRow(ctx, sqlGetUserQuestForUpdate, userID, questID).
		Scan(&uq.UserID, &uq.QuestID, &uq.Progress, &uq.Completed, &uq.CompletedAt, &uq.AcceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock user quest: %w", err)
	}
	return &uq, nil
}

// UpdateUserQuestProgress writes a new progress value
func (t *Tx) UpdateUserQuestProgress(ctx context.Context, userID string, questID, progress int) error {
	if _, err := t.tx.Exec(ctx, sqlUpdateUserQuestProgress, userID, questID, progress); err != nil {
		return fmt.Errorf("failed to update quest progress: %w", err)
	}
	return nil
}

// CompleteUserQuest marks a quest complete. Completion never reverts.
func (t *Tx) CompleteUserQuest(ctx context.Context, userID string, questID int, at time.Time) error {
	if _, err := t.tx.Exec(ctx, sqlCompleteUserQuest, userID, questID, at); err != nil {
		return fmt.Errorf("failed to complete quest: %w", err)
	}
	return nil
}
