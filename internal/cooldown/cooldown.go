// Package cooldown decides whether an item use is permitted given when the
// item was last used. Cooldown state is never stored; it is derived on every
// check from the inventory row's last_used_at and the item's cooldown length.
package cooldown

import (
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
)

// State describes the outcome of a cooldown check.
type State string

const (
	StateReady      State = "READY"
	StateOnCooldown State = "ON_COOLDOWN"
)

// Status carries the derived cooldown state. Remaining is zero when ready.
type Status struct {
	State     State
	Remaining time.Duration
}

// Error reports a rejected use along with how long the caller must wait.
// It matches domain.ErrOnCooldown under errors.Is.
type Error struct {
	Remaining time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: try again in %s", domain.ErrMsgOnCooldown, FormatRemaining(e.Remaining))
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrOnCooldown
}

// Check derives the cooldown status at now. An item with no cooldown, or one
// the user has never used, is always ready.
func Check(lastUsedAt *time.Time, cooldownSeconds *int, now time.Time) Status {
	if cooldownSeconds == nil || *cooldownSeconds <= 0 || lastUsedAt == nil {
		return Status{State: StateReady}
	}

	readyAt := lastUsedAt.Add(time.Duration(*cooldownSeconds) * time.Second)
	if !now.Before(readyAt) {
		return Status{State: StateReady}
	}
	return Status{State: StateOnCooldown, Remaining: readyAt.Sub(now)}
}

// FormatRemaining renders a wait time for user-facing messages. Sub-minute
// waits show seconds, anything longer shows whole minutes rounded up.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	mins := (secs + 59) / 60
	return fmt.Sprintf("%dm", mins)
}
