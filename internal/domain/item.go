package domain

// ItemCategory classifies how an item behaves when used
type ItemCategory string

const (
	CategoryConsumable ItemCategory = "CONSUMABLE"
	CategoryEquipment  ItemCategory = "EQUIPMENT"
	CategorySpecial    ItemCategory = "SPECIAL"
)

// EffectKind is the closed set of effects an item can produce when used
type EffectKind string

const (
	EffectNone            EffectKind = "NONE"
	EffectScoreMultiplier EffectKind = "SCORE_MULTIPLIER"
	EffectDefenseBoost    EffectKind = "DEFENSE_BOOST"
	EffectAttackBoost     EffectKind = "ATTACK_BOOST"
	EffectTimeExtension   EffectKind = "TIME_EXTENSION"
	EffectStreakDecrease  EffectKind = "STREAK_DECREASE"
	EffectStreakProtect   EffectKind = "STREAK_PROTECT"
)

// EffectBehavior declares how a kind resolves when an item carrying it is used.
// This registry is the single dispatch point for effect kinds: the use path and
// the attack path both consult it instead of switching on kind at every call
// site. Adding a kind means adding one entry here.
type EffectBehavior struct {
	// Standing means use creates an ActiveEffect that lives until expiry
	Standing bool
	// Offensive means use resolves through the attack engine against a target
	Offensive bool
	// RequiresTarget means use must name a target user
	RequiresTarget bool
}

var effectBehaviors = map[EffectKind]EffectBehavior{
	EffectNone:            {},
	EffectScoreMultiplier: {Standing: true},
	EffectDefenseBoost:    {Standing: true},
	EffectAttackBoost:     {Standing: true},
	EffectTimeExtension:   {Standing: true},
	EffectStreakDecrease:  {Offensive: true, RequiresTarget: true},
	EffectStreakProtect:   {Standing: true},
}

// Behavior returns the registered behavior for the kind.
// Unknown kinds report ok=false and resolve as inert.
func (k EffectKind) Behavior() (EffectBehavior, bool) {
	b, ok := effectBehaviors[k]
	return b, ok
}

// Valid reports whether the kind is registered
func (k EffectKind) Valid() bool {
	_, ok := effectBehaviors[k]
	return ok
}

// ItemDefinition is a catalog entry. Definitions are immutable once referenced
// by inventory or effect rows; edits happen through admin tooling outside this
// service.
type ItemDefinition struct {
	ID                   int          `json:"item_id"`
	Key                  string       `json:"item_key"`
	DisplayName          string       `json:"display_name"`
	Description          string       `json:"description"`
	Price                int          `json:"price"`
	Category             ItemCategory `json:"category"`
	EffectKind           EffectKind   `json:"effect_kind"`
	DurationSeconds      *int         `json:"duration_seconds,omitempty"`
	CooldownSeconds      *int         `json:"cooldown_seconds,omitempty"`
	Multiplier           *float64     `json:"multiplier,omitempty"`
	TimeExtensionMinutes *int         `json:"time_extension_minutes,omitempty"`
	IsActive             bool         `json:"is_active"`
}
