package cooldown

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kettleby/habitforge/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-5 * time.Minute)

	tests := []struct {
		name            string
		lastUsedAt      *time.Time
		cooldownSeconds *int
		wantState       State
		wantRemaining   time.Duration
	}{
		{
			name:            "never used is ready",
			lastUsedAt:      nil,
			cooldownSeconds: intPtr(600),
			wantState:       StateReady,
		},
		{
			name:            "no cooldown is always ready",
			lastUsedAt:      &used,
			cooldownSeconds: nil,
			wantState:       StateReady,
		},
		{
			name:            "zero cooldown is always ready",
			lastUsedAt:      &used,
			cooldownSeconds: intPtr(0),
			wantState:       StateReady,
		},
		{
			name:            "mid cooldown reports remaining",
			lastUsedAt:      &used,
			cooldownSeconds: intPtr(600),
			wantState:       StateOnCooldown,
			wantRemaining:   5 * time.Minute,
		},
		{
			name:            "exactly at boundary is ready",
			lastUsedAt:      &used,
			cooldownSeconds: intPtr(300),
			wantState:       StateReady,
		},
		{
			name:            "one second before boundary blocks",
			lastUsedAt:      &used,
			cooldownSeconds: intPtr(301),
			wantState:       StateOnCooldown,
			wantRemaining:   time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.lastUsedAt, tt.cooldownSeconds, now)
			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantRemaining, got.Remaining)
		})
	}
}

func TestErrorMatchesSentinel(t *testing.T) {
	err := &Error{Remaining: 90 * time.Second}
	assert.True(t, errors.Is(err, domain.ErrOnCooldown))
	assert.Contains(t, err.Error(), "2m")
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0s", FormatRemaining(0))
	assert.Equal(t, "1s", FormatRemaining(200*time.Millisecond))
	assert.Equal(t, "45s", FormatRemaining(45*time.Second))
	assert.Equal(t, "1m", FormatRemaining(60*time.Second))
	assert.Equal(t, "2m", FormatRemaining(61*time.Second))
	assert.Equal(t, "10m", FormatRemaining(10*time.Minute))
}
