package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/quest"
	"github.com/kettleby/habitforge/internal/repository/fake"
)

func newQuestService(store *fake.Store) quest.Service {
	return quest.NewService(
		store,
		ledger.NewService(store),
		event.NewMemoryBus(),
		func() time.Time { return handlerTestTime },
	)
}

func seedQuests(store *fake.Store) {
	store.AddQuest(domain.Quest{
		ID: 1, Key: "meal_streak_7", Type: domain.QuestTypeMealUpload,
		Requirement: 7, ScoreReward: 50, Active: true,
	})
}

func TestHandleAdvanceQuest(t *testing.T) {
	store := fake.NewStore()
	seedQuests(store)
	store.AcceptQuest("user-1", 1, 0)

	h := HandleAdvanceQuest(newQuestService(store))
	rec := postJSON(t, h, "/quest/advance", QuestAdvanceRequest{
		UserID: "user-1", QuestType: domain.QuestTypeMealUpload,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuestAdvanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 0, resp.Completed)
	// The omitted amount defaults to one
	assert.Equal(t, 1, store.UserQuests["user-1"][1].Progress)
}

func TestHandleAdvanceQuestRejectsUnknownType(t *testing.T) {
	store := fake.NewStore()

	h := HandleAdvanceQuest(newQuestService(store))
	rec := postJSON(t, h, "/quest/advance", QuestAdvanceRequest{
		UserID: "user-1", QuestType: "world_domination",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgValidationFailed)
}

func TestHandleAcceptQuest(t *testing.T) {
	store := fake.NewStore()
	seedQuests(store)

	h := HandleAcceptQuest(newQuestService(store))
	rec := postJSON(t, h, "/quest/accept", QuestAcceptRequest{UserID: "user-1", QuestID: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	// Second acceptance conflicts
	rec = postJSON(t, h, "/quest/accept", QuestAcceptRequest{UserID: "user-1", QuestID: 1})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgAlreadyAcceptedError)
}

func TestHandleAcceptQuestNotFound(t *testing.T) {
	store := fake.NewStore()

	h := HandleAcceptQuest(newQuestService(store))
	rec := postJSON(t, h, "/quest/accept", QuestAcceptRequest{UserID: "user-1", QuestID: 42})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgQuestNotFoundError)
}

func TestHandleGetQuestProgress(t *testing.T) {
	store := fake.NewStore()
	seedQuests(store)
	store.AcceptQuest("user-1", 1, 3)

	h := HandleGetQuestProgress(newQuestService(store))
	req := httptest.NewRequest(http.MethodGet, "/quest/progress?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuestProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Quests, 1)
	assert.Equal(t, 3, resp.Quests[0].Progress)
	assert.Equal(t, "meal_streak_7", resp.Quests[0].QuestKey)
}
