// Package economy implements the shop purchase and item use flows. Each
// operation runs as one transaction: the debit, inventory change, and any
// effect or attack it triggers commit together or not at all. Events go out
// only after the commit succeeds.
package economy

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kettleby/habitforge/internal/attack"
	"github.com/kettleby/habitforge/internal/cooldown"
	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/effect"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/repository"
)

const (
	itemCacheSize = 128
	itemCacheTTL  = 5 * time.Minute
)

// Use outcome strings for items that do not resolve through the attack engine
const (
	OutcomeEffectActivated = "EFFECT_ACTIVATED"
	OutcomeNothingHappened = "NOTHING_HAPPENED"
)

// PurchaseResult reports a completed purchase
type PurchaseResult struct {
	ItemKey    string `json:"item_key"`
	Quantity   int    `json:"quantity"`
	NewBalance int    `json:"new_balance"`
}

// UseResult reports a completed item use
type UseResult struct {
	ItemKey   string         `json:"item_key"`
	Outcome   string         `json:"outcome"`
	Message   string         `json:"message"`
	Remaining int            `json:"remaining"`
	Attack    *attack.Result `json:"attack,omitempty"`
}

// Service defines the shop operations
type Service interface {
	// Purchase buys one unit of an item. Admins skip the debit but follow
	// the same atomic path.
	Purchase(ctx context.Context, userID, itemKey string) (*PurchaseResult, error)
	// Use consumes or activates an owned item. targetUsername is required
	// for offensive items and ignored otherwise.
	Use(ctx context.Context, userID, itemKey, targetUsername string) (*UseResult, error)
	ListItems(ctx context.Context) ([]domain.ItemDefinition, error)
	GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error)
}

type service struct {
	repo      repository.Economy
	ledger    ledger.Service
	effects   effect.Engine
	attacks   *attack.Engine
	bus       event.Bus
	itemCache *lru.LRU[string, domain.ItemDefinition]
	now       func() time.Time
}

// NewService creates an economy service
func NewService(repo repository.Economy, ledgerSvc ledger.Service, effects effect.Engine, attacks *attack.Engine, bus event.Bus, now func() time.Time) Service {
	return &service{
		repo:      repo,
		ledger:    ledgerSvc,
		effects:   effects,
		attacks:   attacks,
		bus:       bus,
		itemCache: lru.NewLRU[string, domain.ItemDefinition](itemCacheSize, nil, itemCacheTTL),
		now:       now,
	}
}

// getItem resolves an active item definition, serving repeated lookups from
// the cache. Definitions are immutable so a short TTL only bounds how long a
// deactivation takes to propagate.
func (s *service) getItem(ctx context.Context, itemKey string) (*domain.ItemDefinition, error) {
	if item, ok := s.itemCache.Get(itemKey); ok {
		return &item, nil
	}

	item, err := s.repo.GetItemByKey(ctx, itemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil || !item.IsActive {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemKey)
	}

	s.itemCache.Add(itemKey, *item)
	return item, nil
}

func (s *service) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return user, nil
}

func (s *service) Purchase(ctx context.Context, userID, itemKey string) (*PurchaseResult, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemKey)
	if err != nil {
		return nil, err
	}

	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	var newBalance, pricePaid int
	if user.IsAdmin {
		// Admins skip the debit but the balance still comes from the locked
		// row so the response is consistent
		acct, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock account: %w", err)
		}
		newBalance = acct.Points
	} else {
		pricePaid = item.Price
		newBalance, err = s.ledger.Debit(ctx, tx, userID, item.Price, domain.TxReasonPurchase, item.Key, now)
		if err != nil {
			return nil, err
		}
	}

	entry, err := tx.GetInventoryEntryForUpdate(ctx, userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory: %w", err)
	}
	newEntry := domain.InventoryEntry{UserID: userID, ItemID: item.ID, Quantity: 1}
	if entry != nil {
		newEntry.Quantity = entry.Quantity + 1
		newEntry.LastUsedAt = entry.LastUsedAt
	}
	if err := tx.UpsertInventoryEntry(ctx, newEntry); err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	if err := tx.InsertPurchase(ctx, userID, item.ID, pricePaid, now); err != nil {
		return nil, fmt.Errorf("failed to log purchase: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	if err := s.bus.Publish(ctx, event.NewItemPurchasedEvent(userID, item.Key, pricePaid)); err != nil {
		logger.FromContext(ctx).Error("Failed to publish purchase event",
			"userID", userID, "itemKey", item.Key, "error", err)
	}

	logger.FromContext(ctx).Info("Item purchased",
		"userID", userID, "itemKey", item.Key, "pricePaid", pricePaid, "newBalance", newBalance)

	return &PurchaseResult{
		ItemKey:    item.Key,
		Quantity:   newEntry.Quantity,
		NewBalance: newBalance,
	}, nil
}

func (s *service) Use(ctx context.Context, userID, itemKey, targetUsername string) (*UseResult, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemKey)
	if err != nil {
		return nil, err
	}

	behavior, ok := item.EffectKind.Behavior()
	if !ok {
		return nil, fmt.Errorf("%w: unknown effect kind %q", domain.ErrInvalidInput, item.EffectKind)
	}

	var target *domain.User
	if behavior.RequiresTarget {
		if targetUsername == "" {
			return nil, fmt.Errorf("%w: item %s", domain.ErrTargetRequired, item.Key)
		}
		target, err = s.repo.GetUserByUsername(ctx, targetUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to get target: %w", err)
		}
		if target == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, targetUsername)
		}
	}

	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// The inventory row lock serializes concurrent uses; the cooldown check
	// below runs against the locked row's last_used_at
	entry, err := tx.GetInventoryEntryForUpdate(ctx, userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory: %w", err)
	}
	if entry == nil || entry.Quantity < 1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwned, item.Key)
	}

	if !user.IsAdmin {
		if status := cooldown.Check(entry.LastUsedAt, item.CooldownSeconds, now); status.State == cooldown.StateOnCooldown {
			return nil, &cooldown.Error{Remaining: status.Remaining}
		}
	}

	result := &UseResult{ItemKey: item.Key}
	switch {
	case behavior.Offensive:
		var attackResult *attack.Result
		if item.Category == domain.CategoryEquipment {
			attackResult, err = s.attacks.ResolveEquipment(ctx, tx, userID, target.ID, now)
		} else {
			attackResult, err = s.attacks.Resolve(ctx, tx, userID, target.ID, now)
		}
		if err != nil {
			return nil, err
		}
		result.Outcome = string(attackResult.Outcome)
		result.Message = attackResult.Message
		result.Attack = attackResult

	case behavior.Standing:
		eff, err := s.effects.Activate(ctx, tx, userID, item, now)
		if err != nil {
			return nil, err
		}
		result.Outcome = OutcomeEffectActivated
		result.Message = fmt.Sprintf("%s is active until %s", item.DisplayName, eff.ExpiresAt.Format(time.RFC3339))

	default:
		result.Outcome = OutcomeNothingHappened
		result.Message = fmt.Sprintf("You used %s. Nothing happened.", item.DisplayName)
	}

	// Equipment stays in the inventory; everything else is consumed
	remaining := entry.Quantity
	if item.Category != domain.CategoryEquipment {
		remaining = entry.Quantity - 1
	}
	lastUsed := now
	if err := tx.UpsertInventoryEntry(ctx, domain.InventoryEntry{
		UserID:     userID,
		ItemID:     item.ID,
		Quantity:   remaining,
		LastUsedAt: &lastUsed,
	}); err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	result.Remaining = remaining

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.publishUseEvents(ctx, userID, item.Key, target, result)

	logger.FromContext(ctx).Info("Item used",
		"userID", userID, "itemKey", item.Key, "outcome", result.Outcome, "remaining", remaining)

	return result, nil
}

func (s *service) publishUseEvents(ctx context.Context, userID, itemKey string, target *domain.User, result *UseResult) {
	log := logger.FromContext(ctx)

	targetID := ""
	if target != nil {
		targetID = target.ID
	}
	if err := s.bus.Publish(ctx, event.NewItemUsedEvent(userID, itemKey, targetID, result.Outcome)); err != nil {
		log.Error("Failed to publish use event", "userID", userID, "itemKey", itemKey, "error", err)
	}

	if result.Attack != nil {
		evt := event.NewAttackResolvedEvent(userID, targetID, string(result.Attack.Outcome), result.Attack.Damage)
		if err := s.bus.Publish(ctx, evt); err != nil {
			log.Error("Failed to publish attack event", "userID", userID, "targetID", targetID, "error", err)
		}
	}
}

func (s *service) ListItems(ctx context.Context) ([]domain.ItemDefinition, error) {
	items, err := s.repo.ListActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *service) GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return entries, nil
}
