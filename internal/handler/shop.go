package handler

import (
	"net/http"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/economy"
	"github.com/kettleby/habitforge/internal/logger"
)

// PurchaseRequest is the body for shop purchases
type PurchaseRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	ItemKey string `json:"item_key" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// PurchaseResponse reports a completed purchase
type PurchaseResponse struct {
	ItemKey    string `json:"item_key"`
	Quantity   int    `json:"quantity"`
	NewBalance int    `json:"new_balance"`
}

// ShopItemsResponse lists the active catalog
type ShopItemsResponse struct {
	Items []domain.ItemDefinition `json:"items"`
}

// HandlePurchase handles shop purchases
// @Summary Purchase an item
// @Description Buys one unit of an item, debiting the user's score balance
// @Tags shop
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Purchase details"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shop/purchase [post]
func HandlePurchase(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PurchaseRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := svc.Purchase(r.Context(), req.UserID, req.ItemKey)
		if err != nil {
			logger.FromContext(r.Context()).Error("Purchase failed",
				"userID", req.UserID, "itemKey", req.ItemKey, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, PurchaseResponse{
			ItemKey:    result.ItemKey,
			Quantity:   result.Quantity,
			NewBalance: result.NewBalance,
		})
	}
}

// HandleGetShopItems lists the purchasable catalog
// @Summary List shop items
// @Description Returns all active item definitions
// @Tags shop
// @Produce json
// @Success 200 {object} ShopItemsResponse
// @Failure 500 {object} ErrorResponse
// @Router /shop/items [get]
func HandleGetShopItems(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list shop items", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, ShopItemsResponse{Items: items})
	}
}
