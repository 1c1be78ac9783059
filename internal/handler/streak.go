package handler

import (
	"net/http"

	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/metrics"
	"github.com/kettleby/habitforge/internal/streak"
)

// StreakCompleteRequest is the body for recording a habit completion
type StreakCompleteRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// StreakResponse reports a user's streak counters
type StreakResponse struct {
	UserID        string `json:"user_id"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// StreakCompleteResponse reports a recorded completion
type StreakCompleteResponse struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Milestone     bool `json:"milestone"`
}

// HandleGetStreak returns a user's streak counters
// @Summary Get streak
// @Description Returns the user's current and longest streak
// @Tags streak
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} StreakResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /streak [get]
func HandleGetStreak(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		sc, err := svc.Get(r.Context(), userID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get streak",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, StreakResponse{
			UserID:        sc.UserID,
			CurrentStreak: sc.CurrentStreak,
			LongestStreak: sc.LongestStreak,
		})
	}
}

// HandleStreakComplete records a habit completion
// @Summary Record a completion
// @Description Increments the user's streak; fires milestone events on interval crossings
// @Tags streak
// @Accept json
// @Produce json
// @Param request body StreakCompleteRequest true "Completion details"
// @Success 200 {object} StreakCompleteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /streak/complete [post]
func HandleStreakComplete(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StreakCompleteRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		result, err := svc.RecordCompletion(r.Context(), req.UserID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to record completion",
				"userID", req.UserID, "error", err)
			respondServiceError(w, err)
			return
		}

		metrics.StreakCompletions.Inc()

		respondJSON(w, http.StatusOK, StreakCompleteResponse{
			CurrentStreak: result.CurrentStreak,
			LongestStreak: result.LongestStreak,
			Milestone:     result.Milestone,
		})
	}
}
