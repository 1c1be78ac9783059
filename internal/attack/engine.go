// Package attack resolves streak attacks between users. Resolution runs
// inside the caller's transaction with the target's streak row locked, so
// simultaneous attacks against one target apply one at a time against fresh
// values.
package attack

import (
	"context"
	"fmt"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

// Outcome tags how an attack resolved
type Outcome string

const (
	OutcomeBlocked            Outcome = "BLOCKED"
	OutcomeProtectionBypassed Outcome = "PROTECTION_BYPASSED"
	OutcomeStreakDecreased    Outcome = "STREAK_DECREASED"
	OutcomeNoEffect           Outcome = "NO_EFFECT"
)

const (
	basePower        = 1
	boostedBasePower = 2
	damageSpread     = 3 // damage is uniform over [base, base+2]
)

// Result describes a resolved attack
type Result struct {
	Outcome      Outcome `json:"outcome"`
	Damage       int     `json:"damage"`
	TargetStreak int     `json:"target_streak"`
	Message      string  `json:"message"`
}

// Engine resolves streak attacks. The random source is injected so tests can
// pin damage rolls.
type Engine struct {
	rnd func(n int) int
}

// NewEngine creates an attack engine. rnd must return a uniform value in
// [0, n).
func NewEngine(rnd func(n int) int) *Engine {
	return &Engine{rnd: rnd}
}

// Resolve applies a consumable streak attack from attacker to target.
// A live attack boost pushes through the target's protection; without one,
// protection blocks the attack outright.
func (e *Engine) Resolve(ctx context.Context, tx repository.Tx, attackerID, targetID string, now time.Time) (*Result, error) {
	protected, err := tx.HasLiveEffect(ctx, targetID, domain.EffectStreakProtect, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check target protection: %w", err)
	}
	boosted, err := tx.HasLiveEffect(ctx, attackerID, domain.EffectAttackBoost, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check attack boost: %w", err)
	}

	if protected && !boosted {
		return &Result{
			Outcome: OutcomeBlocked,
			Message: "The attack was blocked by a streak shield",
		}, nil
	}

	power := basePower
	if boosted {
		power = boostedBasePower
	}
	damage := power + e.rnd(damageSpread)

	result, err := e.applyDamage(ctx, tx, targetID, damage, now)
	if err != nil {
		return nil, err
	}
	if result.Outcome == OutcomeStreakDecreased && protected {
		result.Outcome = OutcomeProtectionBypassed
		result.Message = fmt.Sprintf("The attack punched through the shield for %d damage", result.Damage)
	}

	logger.FromContext(ctx).Info("Attack resolved",
		"attackerID", attackerID, "targetID", targetID,
		"outcome", result.Outcome, "damage", result.Damage)
	return result, nil
}

// ResolveEquipment applies an equipment streak attack. Equipment attacks hit
// for exactly one point and never pierce protection.
func (e *Engine) ResolveEquipment(ctx context.Context, tx repository.Tx, attackerID, targetID string, now time.Time) (*Result, error) {
	protected, err := tx.HasLiveEffect(ctx, targetID, domain.EffectStreakProtect, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check target protection: %w", err)
	}
	if protected {
		return &Result{
			Outcome: OutcomeBlocked,
			Message: "The attack was blocked by a streak shield",
		}, nil
	}

	result, err := e.applyDamage(ctx, tx, targetID, 1, now)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Attack resolved",
		"attackerID", attackerID, "targetID", targetID,
		"outcome", result.Outcome, "damage", result.Damage)
	return result, nil
}

// applyDamage decrements the target's locked streak, flooring at zero.
// The longest streak high-water mark is never touched.
func (e *Engine) applyDamage(ctx context.Context, tx repository.Tx, targetID string, damage int, now time.Time) (*Result, error) {
	streak, err := tx.GetStreakForUpdate(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock target streak: %w", err)
	}

	if streak.CurrentStreak == 0 {
		return &Result{
			Outcome: OutcomeNoEffect,
			Message: "The target has no streak to lose",
		}, nil
	}

	newStreak := streak.CurrentStreak - damage
	if newStreak < 0 {
		newStreak = 0
	}

	if err := tx.UpdateStreak(ctx, targetID, newStreak, streak.LongestStreak, now); err != nil {
		return nil, fmt.Errorf("failed to update target streak: %w", err)
	}

	return &Result{
		Outcome:      OutcomeStreakDecreased,
		Damage:       streak.CurrentStreak - newStreak,
		TargetStreak: newStreak,
		Message:      fmt.Sprintf("The attack landed for %d damage", streak.CurrentStreak-newStreak),
	}, nil
}
