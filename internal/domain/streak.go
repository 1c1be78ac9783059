package domain

import "time"

// StreakCounter is a user's consecutive-day habit completion counter.
// CurrentStreak never drops below zero; LongestStreak is a monotonic
// high-water mark and never decreases.
type StreakCounter struct {
	UserID        string    `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	UpdatedAt     time.Time `json:"updated_at"`
}
