package handler

import (
	"net/http"
	"time"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/effect"
	"github.com/kettleby/habitforge/internal/logger"
)

// EffectsResponse lists a user's live effects
type EffectsResponse struct {
	Effects []domain.ActiveEffect `json:"effects"`
}

// HandleGetEffects returns the user's live effects
// @Summary Get active effects
// @Description Returns effects still in force at request time
// @Tags effects
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} EffectsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /effects [get]
func HandleGetEffects(eng effect.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		effects, err := eng.ListLive(r.Context(), userID, time.Now())
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list effects",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, EffectsResponse{Effects: effects})
	}
}
