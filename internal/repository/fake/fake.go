// Package fake provides a stateful in-memory repository implementation used
// by service tests. It implements every repository interface plus Tx over the
// same backing maps, so a committed transaction is immediately visible to
// reads. Rollback does not restore prior state; tests exercise paths that
// either commit or fail before mutating.
package fake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/repository"
)

// Store is an in-memory repository
type Store struct {
	mu sync.Mutex

	Users      map[string]*domain.User           // by user ID
	Items      map[string]*domain.ItemDefinition // by item key
	Accounts   map[string]int                    // points by user ID
	Txns       []domain.ScoreTransaction
	Inventory  map[string]map[int]*domain.InventoryEntry
	Purchases  []domain.PurchaseRecord
	Effects    []domain.ActiveEffect
	Streaks    map[string]*domain.StreakCounter
	Quests     map[int]*domain.Quest
	UserQuests map[string]map[int]*domain.UserQuest

	nextTxnID      int64
	nextEffectID   int64
	nextPurchaseID int64

	// Error injection
	BeginTxErr error
	CommitErr  error
}

var (
	_ repository.Economy = (*Store)(nil)
	_ repository.Ledger  = (*Store)(nil)
	_ repository.Effect  = (*Store)(nil)
	_ repository.Streak  = (*Store)(nil)
	_ repository.Quest   = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		Users:      make(map[string]*domain.User),
		Items:      make(map[string]*domain.ItemDefinition),
		Accounts:   make(map[string]int),
		Inventory:  make(map[string]map[int]*domain.InventoryEntry),
		Streaks:    make(map[string]*domain.StreakCounter),
		Quests:     make(map[int]*domain.Quest),
		UserQuests: make(map[string]map[int]*domain.UserQuest),
	}
}

// AddUser registers a user
func (s *Store) AddUser(u domain.User) {
	s.Users[u.ID] = &u
}

// AddItem registers a catalog item
func (s *Store) AddItem(item domain.ItemDefinition) {
	s.Items[item.Key] = &item
}

// AddQuest registers a quest definition
func (s *Store) AddQuest(q domain.Quest) {
	s.Quests[q.ID] = &q
}

// SetBalance sets a user's point balance directly
func (s *Store) SetBalance(userID string, points int) {
	s.Accounts[userID] = points
}

// SetInventory sets an inventory row directly
func (s *Store) SetInventory(userID string, itemID, quantity int, lastUsedAt *time.Time) {
	if s.Inventory[userID] == nil {
		s.Inventory[userID] = make(map[int]*domain.InventoryEntry)
	}
	s.Inventory[userID][itemID] = &domain.InventoryEntry{
		UserID:     userID,
		ItemID:     itemID,
		Quantity:   quantity,
		LastUsedAt: lastUsedAt,
	}
}

// SetStreak sets a streak counter directly
func (s *Store) SetStreak(userID string, current, longest int) {
	s.Streaks[userID] = &domain.StreakCounter{UserID: userID, CurrentStreak: current, LongestStreak: longest}
}

// AcceptQuest inserts a user quest row directly
func (s *Store) AcceptQuest(userID string, questID, progress int) {
	if s.UserQuests[userID] == nil {
		s.UserQuests[userID] = make(map[int]*domain.UserQuest)
	}
	s.UserQuests[userID][questID] = &domain.UserQuest{UserID: userID, QuestID: questID, Progress: progress}
}

func (s *Store) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetItemByKey(_ context.Context, itemKey string) (*domain.ItemDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[itemKey]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (s *Store) ListActiveItems(_ context.Context) ([]domain.ItemDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []domain.ItemDefinition
	for _, item := range s.Items {
		if item.IsActive {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (s *Store) GetInventory(_ context.Context, userID string) ([]domain.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []domain.InventoryEntry
	for _, e := range s.Inventory[userID] {
		entries = append(entries, *e)
	}
	return entries, nil
}

func (s *Store) GetAccount(_ context.Context, userID string) (*domain.ScoreAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.ScoreAccount{UserID: userID, Points: s.Accounts[userID]}, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, limit int) ([]domain.ScoreTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txns []domain.ScoreTransaction
	for i := len(s.Txns) - 1; i >= 0 && len(txns) < limit; i-- {
		if s.Txns[i].UserID == userID {
			txns = append(txns, s.Txns[i])
		}
	}
	return txns, nil
}

func (s *Store) ListLiveEffects(_ context.Context, userID string, now time.Time) ([]domain.ActiveEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var live []domain.ActiveEffect
	for _, e := range s.Effects {
		if e.UserID == userID && e.Live(now) {
			live = append(live, e)
		}
	}
	return live, nil
}

func (s *Store) GetStreak(_ context.Context, userID string) (*domain.StreakCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.Streaks[userID]; ok {
		cp := *sc
		return &cp, nil
	}
	return &domain.StreakCounter{UserID: userID}, nil
}

func (s *Store) GetQuestByID(_ context.Context, questID int) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.Quests[questID]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (s *Store) GetUserQuestsByType(_ context.Context, userID, questType string) ([]domain.UserQuest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var quests []domain.UserQuest
	for _, uq := range s.UserQuests[userID] {
		q, ok := s.Quests[uq.QuestID]
		if !ok || !q.Active || q.Type != questType || uq.Completed {
			continue
		}
		cp := *uq
		s.joinQuestLocked(&cp, q)
		quests = append(quests, cp)
	}
	return quests, nil
}

func (s *Store) ListUserQuests(_ context.Context, userID string) ([]domain.UserQuest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var quests []domain.UserQuest
	for _, uq := range s.UserQuests[userID] {
		cp := *uq
		if q, ok := s.Quests[uq.QuestID]; ok {
			s.joinQuestLocked(&cp, q)
		}
		quests = append(quests, cp)
	}
	return quests, nil
}

func (s *Store) InsertUserQuest(_ context.Context, userID string, questID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UserQuests[userID] == nil {
		s.UserQuests[userID] = make(map[int]*domain.UserQuest)
	}
	if _, ok := s.UserQuests[userID][questID]; ok {
		return domain.ErrAlreadyAccepted
	}
	s.UserQuests[userID][questID] = &domain.UserQuest{UserID: userID, QuestID: questID, AcceptedAt: at}
	return nil
}

func (s *Store) joinQuestLocked(uq *domain.UserQuest, q *domain.Quest) {
	uq.QuestKey = q.Key
	uq.QuestType = q.Type
	uq.Requirement = q.Requirement
	uq.ScoreReward = q.ScoreReward
}

func (s *Store) BeginTx(_ context.Context) (repository.Tx, error) {
	if s.BeginTxErr != nil {
		return nil, s.BeginTxErr
	}
	return &fakeTx{store: s}, nil
}

// fakeTx mutates the store directly. Closed transactions reject further use.
type fakeTx struct {
	store  *Store
	closed bool
}

var _ repository.Tx = (*fakeTx)(nil)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

func (t *fakeTx) GetAccountForUpdate(_ context.Context, userID string) (*domain.ScoreAccount, error) {
	if t.closed {
		return nil, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return &domain.ScoreAccount{UserID: userID, Points: t.store.Accounts[userID]}, nil
}

func (t *fakeTx) UpdateAccountBalance(_ context.Context, userID string, points int) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.Accounts[userID] = points
	return nil
}

func (t *fakeTx) InsertTransaction(_ context.Context, txn domain.ScoreTransaction) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.nextTxnID++
	txn.ID = t.store.nextTxnID
	t.store.Txns = append(t.store.Txns, txn)
	return nil
}

func (t *fakeTx) GetInventoryEntryForUpdate(_ context.Context, userID string, itemID int) (*domain.InventoryEntry, error) {
	if t.closed {
		return nil, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	e, ok := t.store.Inventory[userID][itemID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (t *fakeTx) UpsertInventoryEntry(_ context.Context, entry domain.InventoryEntry) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.Inventory[entry.UserID] == nil {
		t.store.Inventory[entry.UserID] = make(map[int]*domain.InventoryEntry)
	}
	cp := entry
	t.store.Inventory[entry.UserID][entry.ItemID] = &cp
	return nil
}

func (t *fakeTx) InsertPurchase(_ context.Context, userID string, itemID, pricePaid int, at time.Time) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.nextPurchaseID++
	t.store.Purchases = append(t.store.Purchases, domain.PurchaseRecord{
		ID:        t.store.nextPurchaseID,
		UserID:    userID,
		ItemID:    itemID,
		PricePaid: pricePaid,
		CreatedAt: at,
	})
	return nil
}

func (t *fakeTx) InsertEffect(_ context.Context, effect domain.ActiveEffect) (int64, error) {
	if t.closed {
		return 0, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.nextEffectID++
	effect.ID = t.store.nextEffectID
	t.store.Effects = append(t.store.Effects, effect)
	return effect.ID, nil
}

func (t *fakeTx) HasLiveEffect(_ context.Context, userID string, kind domain.EffectKind, now time.Time) (bool, error) {
	if t.closed {
		return false, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, e := range t.store.Effects {
		if e.UserID == userID && e.Kind == kind && e.Live(now) {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) GetStreakForUpdate(_ context.Context, userID string) (*domain.StreakCounter, error) {
	if t.closed {
		return nil, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if sc, ok := t.store.Streaks[userID]; ok {
		cp := *sc
		return &cp, nil
	}
	sc := &domain.StreakCounter{UserID: userID}
	t.store.Streaks[userID] = sc
	cp := *sc
	return &cp, nil
}

func (t *fakeTx) UpdateStreak(_ context.Context, userID string, current, longest int, at time.Time) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.Streaks[userID] = &domain.StreakCounter{
		UserID:        userID,
		CurrentStreak: current,
		LongestStreak: longest,
		UpdatedAt:     at,
	}
	return nil
}

func (t *fakeTx) GetUserQuestForUpdate(_ context.Context, userID string, questID int) (*domain.UserQuest, error) {
	if t.closed {
		return nil, errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	uq, ok := t.store.UserQuests[userID][questID]
	if !ok {
		return nil, nil
	}
	cp := *uq
	return &cp, nil
}

func (t *fakeTx) UpdateUserQuestProgress(_ context.Context, userID string, questID, progress int) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if uq, ok := t.store.UserQuests[userID][questID]; ok {
		uq.Progress = progress
	}
	return nil
}

func (t *fakeTx) CompleteUserQuest(_ context.Context, userID string, questID int, at time.Time) error {
	if t.closed {
		return errTxClosed
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if uq, ok := t.store.UserQuests[userID][questID]; ok {
		uq.Completed = true
		completedAt := at
		uq.CompletedAt = &completedAt
	}
	return nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}
	if t.store.CommitErr != nil {
		return t.store.CommitErr
	}
	t.closed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	return nil
}
