package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/kettleby/habitforge/internal/cooldown"
	"github.com/kettleby/habitforge/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error            string `json:"error"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing more we can do for the client
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to an HTTP response. Cooldown
// rejections carry the remaining wait so clients can show a countdown.
func respondServiceError(w http.ResponseWriter, err error) {
	var cdErr *cooldown.Error
	if errors.As(err, &cdErr) {
		respondJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:            ErrMsgOnCooldownError,
			RemainingSeconds: int(math.Ceil(cdErr.Remaining.Seconds())),
		})
		return
	}

	status, message := mapServiceErrorToUserMessage(err)
	respondError(w, status, message)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// User and item messages
	ErrMsgUserNotFoundError  = "User not found"
	ErrMsgItemNotFoundError  = "Item not found"
	ErrMsgNotOwnedError      = "You don't have that item"
	ErrMsgNotEnoughPointsErr = "Not enough points"
	ErrMsgInvalidAmountError = "Amount must be positive"

	// Cooldown messages
	ErrMsgOnCooldownError = "Item is on cooldown. Try again later"

	// Attack messages
	ErrMsgTargetRequiredError = "That item needs a target"
	ErrMsgTargetNotFoundError = "Target user not found"

	// Quest messages
	ErrMsgQuestNotFoundError   = "Quest not found"
	ErrMsgAlreadyAcceptedError = "You have already accepted that quest"

	// Validation messages
	ErrMsgInvalidInputError = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Infrastructure failures collapse to a generic 500 so internal
// details never leak to clients.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrNotOwned):
		return http.StatusBadRequest, ErrMsgNotOwnedError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughPointsErr
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, ErrMsgInvalidAmountError
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrMsgOnCooldownError
	case errors.Is(err, domain.ErrTargetRequired):
		return http.StatusBadRequest, ErrMsgTargetRequiredError
	case errors.Is(err, domain.ErrTargetNotFound):
		return http.StatusBadRequest, ErrMsgTargetNotFoundError
	case errors.Is(err, domain.ErrQuestNotFound):
		return http.StatusBadRequest, ErrMsgQuestNotFoundError
	case errors.Is(err, domain.ErrAlreadyAccepted):
		return http.StatusConflict, ErrMsgAlreadyAcceptedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrDatabaseError):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
