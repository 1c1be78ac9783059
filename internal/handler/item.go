package handler

import (
	"net/http"

	"github.com/kettleby/habitforge/internal/attack"
	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/economy"
	"github.com/kettleby/habitforge/internal/logger"
)

// UseItemRequest is the body for item use
type UseItemRequest struct {
	UserID         string `json:"user_id" validate:"required,max=64"`
	ItemKey        string `json:"item_key" validate:"required,max=100,excludesall=\x00\n\r\t"`
	TargetUsername string `json:"target_username" validate:"omitempty,max=100,excludesall=\x00\n\r\t"`
}

// UseItemResponse reports the outcome of an item use
type UseItemResponse struct {
	ItemKey           string         `json:"item_key"`
	Outcome           string         `json:"outcome"`
	Message           string         `json:"message"`
	RemainingQuantity int            `json:"remaining_quantity"`
	Attack            *attack.Result `json:"attack,omitempty"`
}

// InventoryResponse lists a user's inventory rows
type InventoryResponse struct {
	Inventory []domain.InventoryEntry `json:"inventory"`
}

// HandleUseItem handles item use
// @Summary Use an item
// @Description Consumes or activates an owned item; offensive items need a target
// @Tags item
// @Accept json
// @Produce json
// @Param request body UseItemRequest true "Use details"
// @Success 200 {object} UseItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Cooldown"
// @Failure 500 {object} ErrorResponse
// @Router /item/use [post]
func HandleUseItem(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UseItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := svc.Use(r.Context(), req.UserID, req.ItemKey, req.TargetUsername)
		if err != nil {
			logger.FromContext(r.Context()).Error("Item use failed",
				"userID", req.UserID, "itemKey", req.ItemKey, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, UseItemResponse{
			ItemKey:           result.ItemKey,
			Outcome:           result.Outcome,
			Message:           result.Message,
			RemainingQuantity: result.Remaining,
			Attack:            result.Attack,
		})
	}
}

// HandleGetInventory returns a user's inventory
// @Summary Get inventory
// @Description Returns all inventory rows for a user
// @Tags item
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} InventoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /inventory [get]
func HandleGetInventory(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		entries, err := svc.GetInventory(r.Context(), userID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get inventory",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, InventoryResponse{Inventory: entries})
	}
}
