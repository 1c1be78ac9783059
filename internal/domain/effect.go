package domain

import "time"

// DefaultEffectDuration is the effect lifetime applied when an item defines
// no duration of its own.
const DefaultEffectDuration = time.Hour

// ActiveEffect is a time-bounded buff/debuff attached to a user. Rows are
// never mutated after creation and never deleted; liveness is decided at read
// time by comparing ExpiresAt against the request clock.
type ActiveEffect struct {
	ID                   int64      `json:"effect_id"`
	UserID               string     `json:"user_id"`
	SourceItemID         int        `json:"source_item_id"`
	Kind                 EffectKind `json:"kind"`
	ExpiresAt            time.Time  `json:"expires_at"`
	Multiplier           *float64   `json:"multiplier,omitempty"`
	TimeExtensionMinutes *int       `json:"time_extension_minutes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Live reports whether the effect is still in force at the given instant
func (e ActiveEffect) Live(now time.Time) bool {
	return e.ExpiresAt.After(now)
}
