package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kettleby/habitforge/internal/domain"
)

const (
	sqlGetUserByID = `
		SELECT user_id, username, is_admin
		FROM users
		WHERE user_id = $1`

	sqlGetUserByUsername = `
		SELECT user_id, username, is_admin
		FROM users
		WHERE username = $1`
)

// GetUserByID retrieves a user by ID. Returns nil when no row exists.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, sqlGetUserByID, userID).Scan(&u.ID, &u.Username, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username. Returns nil when no row exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, sqlGetUserByUsername, username).Scan(&u.ID, &u.Username, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}
