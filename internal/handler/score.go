package handler

import (
	"net/http"
	"strconv"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/logger"
)

// BalanceResponse reports a user's point balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// TransactionsResponse lists ledger rows, newest first
type TransactionsResponse struct {
	Transactions []domain.ScoreTransaction `json:"transactions"`
}

// HandleGetBalance returns a user's score balance
// @Summary Get score balance
// @Description Returns the user's current point balance
// @Tags score
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /score/balance [get]
func HandleGetBalance(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		balance, err := svc.Balance(r.Context(), userID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get balance",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
	}
}

// HandleGetTransactions returns a user's recent ledger rows
// @Summary Get score transactions
// @Description Returns the user's ledger history, newest first
// @Tags score
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Max rows to return"
// @Success 200 {object} TransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /score/transactions [get]
func HandleGetTransactions(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = parsed
		}

		txns, err := svc.Transactions(r.Context(), userID, limit)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get transactions",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, TransactionsResponse{Transactions: txns})
	}
}
