package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/repository/fake"
	"github.com/kettleby/habitforge/internal/streak"
)

func newStreakService(store *fake.Store) streak.Service {
	return streak.NewService(store, event.NewMemoryBus(), 7, func() time.Time { return handlerTestTime })
}

func TestHandleStreakComplete(t *testing.T) {
	store := fake.NewStore()
	store.SetStreak("user-1", 6, 6)

	h := HandleStreakComplete(newStreakService(store))
	rec := postJSON(t, h, "/streak/complete", StreakCompleteRequest{UserID: "user-1"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StreakCompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.CurrentStreak)
	assert.True(t, resp.Milestone)
}

func TestHandleGetStreak(t *testing.T) {
	store := fake.NewStore()
	store.SetStreak("user-1", 3, 9)

	h := HandleGetStreak(newStreakService(store))
	req := httptest.NewRequest(http.MethodGet, "/streak?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StreakResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, 9, resp.LongestStreak)
}
