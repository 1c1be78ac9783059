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
	"github.com/kettleby/habitforge/internal/repository/fake"
)

func TestHandleUseItem(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)
	store.SetInventory("user-1", 1, 1, nil)

	h := HandleUseItem(newEconomyService(store))
	rec := postJSON(t, h, "/item/use", UseItemRequest{UserID: "user-1", ItemKey: "double_points"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UseItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EFFECT_ACTIVATED", resp.Outcome)
	assert.Equal(t, 0, resp.RemainingQuantity)
}

func TestHandleUseItemNotOwned(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)

	h := HandleUseItem(newEconomyService(store))
	rec := postJSON(t, h, "/item/use", UseItemRequest{UserID: "user-1", ItemKey: "double_points"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgNotOwnedError)
}

func TestHandleUseItemCooldown(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)
	store.AddUser(domain.User{ID: "user-2", Username: "bob"})
	store.SetStreak("user-2", 5, 5)
	used := handlerTestTime.Add(-time.Minute)
	store.SetInventory("user-1", 2, 3, &used)

	h := HandleUseItem(newEconomyService(store))
	rec := postJSON(t, h, "/item/use", UseItemRequest{
		UserID: "user-1", ItemKey: "sabotage", TargetUsername: "bob",
	})

	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgOnCooldownError, resp.Error)
	assert.Equal(t, 540, resp.RemainingSeconds)
}

func TestHandleUseItemTargetRequired(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)
	store.SetInventory("user-1", 2, 1, nil)

	h := HandleUseItem(newEconomyService(store))
	rec := postJSON(t, h, "/item/use", UseItemRequest{UserID: "user-1", ItemKey: "sabotage"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgTargetRequiredError)
}

func TestHandleGetInventory(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)
	store.SetInventory("user-1", 1, 2, nil)

	h := HandleGetInventory(newEconomyService(store))
	req := httptest.NewRequest(http.MethodGet, "/inventory?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp InventoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Inventory, 1)
	assert.Equal(t, 2, resp.Inventory[0].Quantity)
}

func TestHandleGetInventoryMissingParam(t *testing.T) {
	store := fake.NewStore()
	seedShop(store)

	h := HandleGetInventory(newEconomyService(store))
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
