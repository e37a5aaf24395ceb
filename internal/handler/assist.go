package handler

import (
	"context"
	"net/http"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/validation"
)

const (
	polishGoal     = "goal"
	polishActivity = "activity"
	polishFree     = "free"
)

type AssistHandler struct {
	assistService *service.AssistService
	goalService   *service.GoalService
}

func NewAssistHandler(assistService *service.AssistService, goalService *service.GoalService) *AssistHandler {
	return &AssistHandler{
		assistService: assistService,
		goalService:   goalService,
	}
}

type polishRequest struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	GoalID string `json:"goal_id"`
	Intent string `json:"intent"`
}

func (h *AssistHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"available": h.assistService.Available()})
}

// Polish rewrites a draft. AI failures are not errors here: the response is a
// 200 carrying the original text and a warning.
func (h *AssistHandler) Polish(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req polishRequest
	err := readJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The completion call is bounded by the client timeout, not by the caller.
	ctx := context.WithoutCancel(r.Context())

	var result service.AssistResult
	switch req.Kind {
	case polishGoal:
		result, err = h.assistService.PolishGoalDescription(ctx, req.Text)
	case polishActivity:
		goal, gerr := h.goalService.Goal(user, req.GoalID)
		if gerr != nil {
			respondError(w, r, gerr, "failed to get goal for polish", "user_id", user.ID, "goal_id", req.GoalID)
			return
		}
		result, err = h.assistService.PolishActivity(ctx, goal.Title, req.Text)
	case polishFree, "":
		result, err = h.assistService.Polish(ctx, req.Text, req.Intent)
	default:
		err = validation.Field("kind", "kind must be goal, activity or free")
	}
	if err != nil {
		respondError(w, r, err, "polish failed", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
