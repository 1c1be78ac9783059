package handler

import (
	"net/http"

	"github.com/kettleby/habitforge/internal/domain"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/quest"
)

// QuestAdvanceRequest is the body for direct quest advancement. This is the
// hook for habit-side services that do not publish onto the internal bus.
type QuestAdvanceRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	QuestType string `json:"quest_type" validate:"required,oneof=meal_upload streak_milestone item_purchase item_use"`
	Amount    int    `json:"amount" validate:"omitempty,gt=0"`
}

// QuestAdvanceResponse reports how many quests moved
type QuestAdvanceResponse struct {
	Updated   int `json:"updated"`
	Completed int `json:"completed"`
}

// QuestAcceptRequest is the body for quest acceptance
type QuestAcceptRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	QuestID int    `json:"quest_id" validate:"required,gt=0"`
}

// QuestProgressResponse lists a user's accepted quests
type QuestProgressResponse struct {
	Quests []domain.UserQuest `json:"quests"`
}

// HandleAdvanceQuest advances quests of a type for a user
// @Summary Advance quests
// @Description Applies progress to every accepted, incomplete quest of the given type
// @Tags quest
// @Accept json
// @Produce json
// @Param request body QuestAdvanceRequest true "Advance details"
// @Success 200 {object} QuestAdvanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quest/advance [post]
func HandleAdvanceQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestAdvanceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		amount := req.Amount
		if amount == 0 {
			amount = 1
		}

		result, err := svc.Advance(r.Context(), req.UserID, req.QuestType, amount)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to advance quests",
				"userID", req.UserID, "questType", req.QuestType, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, QuestAdvanceResponse{
			Updated:   result.Updated,
			Completed: result.Completed,
		})
	}
}

// HandleAcceptQuest enrolls a user in a quest
// @Summary Accept a quest
// @Description Enrolls the user in a quest at zero progress
// @Tags quest
// @Accept json
// @Produce json
// @Param request body QuestAcceptRequest true "Accept details"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already accepted"
// @Failure 500 {object} ErrorResponse
// @Router /quest/accept [post]
func HandleAcceptQuest(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestAcceptRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.Accept(r.Context(), req.UserID, req.QuestID); err != nil {
			logger.FromContext(r.Context()).Warn("Failed to accept quest",
				"userID", req.UserID, "questID", req.QuestID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Quest accepted"})
	}
}

// HandleGetQuestProgress returns a user's quest progress
// @Summary Get quest progress
// @Description Returns all of the user's accepted quests with progress
// @Tags quest
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} QuestProgressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quest/progress [get]
func HandleGetQuestProgress(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireQueryParam(w, r, "user_id")
		if !ok {
			return
		}

		quests, err := svc.ListProgress(r.Context(), userID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get quest progress",
				"userID", userID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, QuestProgressResponse{Quests: quests})
	}
}
