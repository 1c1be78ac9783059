package quest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/repository/fake"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testTime }

func newTestService(store *fake.Store, bus event.Bus) Service {
	return NewService(store, ledger.NewService(store), bus, fixedNow)
}

func mealQuest(id, requirement, reward int) domain.Quest {
	return domain.Quest{
		ID:          id,
		Key:         "meal_quest",
		Type:        domain.QuestTypeMealUpload,
		Requirement: requirement,
		ScoreReward: reward,
		Active:      true,
	}
}

func TestAdvanceProgresses(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 7, 50))
	store.AcceptQuest("user-1", 1, 0)
	svc := newTestService(store, event.NewMemoryBus())

	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, store.UserQuests["user-1"][1].Progress)
	assert.False(t, store.UserQuests["user-1"][1].Completed)
}

func TestAdvanceCompletesAndPaysOnce(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 3, 50))
	store.AcceptQuest("user-1", 1, 2)
	bus := event.NewMemoryBus()

	var completions []event.QuestCompletedPayloadV1
	bus.Subscribe(event.TypeQuestCompleted, func(_ context.Context, e event.Event) error {
		payload, err := event.DecodePayload[event.QuestCompletedPayloadV1](e.Payload)
		if err != nil {
			return err
		}
		completions = append(completions, payload)
		return nil
	})

	svc := newTestService(store, bus)
	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Completed)
	assert.True(t, store.UserQuests["user-1"][1].Completed)
	assert.Equal(t, 50, store.Accounts["user-1"])
	require.Len(t, store.Txns, 1)
	assert.Equal(t, domain.TxReasonQuestReward, store.Txns[0].Reason)
	assert.Equal(t, "meal_quest", store.Txns[0].SourceRef)
	require.Len(t, completions, 1)
	assert.Equal(t, 50, completions[0].ScoreReward)

	// A completed quest never advances or pays again
	result, err = svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)
	assert.Equal(t, &AdvanceResult{}, result)
	assert.Equal(t, 50, store.Accounts["user-1"])
	assert.Len(t, completions, 1)
}

func TestAdvanceOverflowCapsAtRequirement(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 5, 10))
	store.AcceptQuest("user-1", 1, 4)
	svc := newTestService(store, event.NewMemoryBus())

	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 5, store.UserQuests["user-1"][1].Progress)
}

func TestAdvanceNoMatchingQuests(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 7, 50))
	store.AcceptQuest("user-1", 1, 0)
	svc := newTestService(store, event.NewMemoryBus())

	// Wrong type and wrong user both no-op
	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeItemUse, 1)
	require.NoError(t, err)
	assert.Equal(t, &AdvanceResult{}, result)

	result, err = svc.Advance(context.Background(), "stranger", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)
	assert.Equal(t, &AdvanceResult{}, result)
}

func TestAdvanceSkipsInactiveQuest(t *testing.T) {
	store := fake.NewStore()
	q := mealQuest(1, 7, 50)
	q.Active = false
	store.AddQuest(q)
	store.AcceptQuest("user-1", 1, 0)
	svc := newTestService(store, event.NewMemoryBus())

	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)
	assert.Equal(t, &AdvanceResult{}, result)
}

func TestAdvanceRejectsNonPositiveAmount(t *testing.T) {
	store := fake.NewStore()
	svc := newTestService(store, event.NewMemoryBus())

	_, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestAccept(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 7, 50))
	svc := newTestService(store, event.NewMemoryBus())

	err := svc.Accept(context.Background(), "user-1", 1)
	require.NoError(t, err)
	require.NotNil(t, store.UserQuests["user-1"][1])

	// Accepting twice fails
	err = svc.Accept(context.Background(), "user-1", 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
}

func TestAcceptUnknownOrInactiveQuest(t *testing.T) {
	store := fake.NewStore()
	q := mealQuest(2, 7, 50)
	q.Active = false
	store.AddQuest(q)
	svc := newTestService(store, event.NewMemoryBus())

	err := svc.Accept(context.Background(), "user-1", 99)
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	err = svc.Accept(context.Background(), "user-1", 2)
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)
}

func TestEventHandlerAdvancesQuests(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 2, 20))
	store.AcceptQuest("user-1", 1, 0)
	bus := event.NewMemoryBus()

	svc := newTestService(store, bus)
	NewEventHandler(svc).Register(bus)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewMealUploadedEvent("user-1", "meal-1")))
	assert.Equal(t, 1, store.UserQuests["user-1"][1].Progress)

	require.NoError(t, bus.Publish(ctx, event.NewMealUploadedEvent("user-1", "meal-2")))
	assert.True(t, store.UserQuests["user-1"][1].Completed)
	assert.Equal(t, 20, store.Accounts["user-1"])
}

func TestEventHandlerItemPurchase(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(domain.Quest{
		ID:          3,
		Key:         "first_purchase",
		Type:        domain.QuestTypeItemPurchase,
		Requirement: 1,
		ScoreReward: 10,
		Active:      true,
	})
	store.AcceptQuest("user-1", 3, 0)
	bus := event.NewMemoryBus()

	svc := newTestService(store, bus)
	NewEventHandler(svc).Register(bus)

	require.NoError(t, bus.Publish(context.Background(), event.NewItemPurchasedEvent("user-1", "double_points", 50)))
	assert.True(t, store.UserQuests["user-1"][3].Completed)
}

// staleListStore serves a fixed snapshot from the unlocked listing so the
// locked re-read can disagree with it, the way a concurrent request would.
type staleListStore struct {
	*fake.Store
	snapshot []domain.UserQuest
}

func (s *staleListStore) GetUserQuestsByType(context.Context, string, string) ([]domain.UserQuest, error) {
	return s.snapshot, nil
}

func TestAdvanceDoesNotCountQuestCompletedUnderLock(t *testing.T) {
	store := fake.NewStore()
	store.AddQuest(mealQuest(1, 3, 50))
	store.AcceptQuest("user-1", 1, 3)
	store.UserQuests["user-1"][1].Completed = true

	stale := &staleListStore{
		Store: store,
		snapshot: []domain.UserQuest{{
			UserID:      "user-1",
			QuestID:     1,
			Progress:    2,
			QuestKey:    "meal_quest",
			QuestType:   domain.QuestTypeMealUpload,
			Requirement: 3,
			ScoreReward: 50,
		}},
	}
	svc := NewService(stale, ledger.NewService(store), event.NewMemoryBus(), fixedNow)

	result, err := svc.Advance(context.Background(), "user-1", domain.QuestTypeMealUpload, 1)
	require.NoError(t, err)

	// Nothing was written, so nothing is counted and no reward is paid
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 0, store.Accounts["user-1"])
	assert.Equal(t, 3, store.UserQuests["user-1"][1].Progress)
}
