package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/validation"
)

const dueDateLayout = time.DateOnly

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// goalRequest is the wire form of service.GoalInput with the due date as YYYY-MM-DD.
type goalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	Visibility  string `json:"visibility"`
}

func (req goalRequest) input() (service.GoalInput, error) {
	in := service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Visibility:  req.Visibility,
	}

	due := strings.TrimSpace(req.DueDate)
	if due != "" {
		t, err := time.Parse(dueDateLayout, due)
		if err != nil {
			return in, validation.Field("due_date", "due date must look like 2024-05-31")
		}
		in.DueDate = &t
	}
	return in, nil
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.MyGoals(user)
	if err != nil {
		respondError(w, r, err, "failed to get goals", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	err := readJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.input()
	if err != nil {
		respondError(w, r, err, "invalid goal")
		return
	}

	goal, err := h.goalService.Create(user, in)
	if err != nil {
		respondError(w, r, err, "failed to create goal", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.Goal(user, goalID)
	if err != nil {
		respondError(w, r, err, "failed to get goal", "user_id", user.ID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var in service.StatusInput
	err := readJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.goalService.UpdateStatus(user, goalID, in.Status)
	if err != nil {
		respondError(w, r, err, "failed to update goal status", "user_id", user.ID, "goal_id", goalID)
		return
	}

	goal, err := h.goalService.Goal(user, goalID)
	if err != nil {
		respondError(w, r, err, "failed to reload goal", "user_id", user.ID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Activity(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	limit, err := queryLimit(r)
	if err != nil {
		respondError(w, r, err, "invalid limit")
		return
	}

	entries, err := h.goalService.GoalActivity(user, goalID, limit)
	if err != nil {
		respondError(w, r, err, "failed to get goal activity", "user_id", user.ID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *GoalHandler) LogActivity(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var in service.ActivityInput
	err := readJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logged, err := h.goalService.LogActivity(user, goalID, in)
	if err != nil {
		respondError(w, r, err, "failed to log activity", "user_id", user.ID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusCreated, logged)
}

// Team lists every goal the signed-in user may see.
func (h *GoalHandler) Team(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.TeamGoals(user)
	if err != nil {
		respondError(w, r, err, "failed to get team goals", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Public(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.PublicGoals()
	if err != nil {
		respondError(w, r, err, "failed to get public goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// Feed lists recent team activity. ?limit= defaults to the configured size.
func (h *GoalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit, err := queryLimit(r)
	if err != nil {
		respondError(w, r, err, "invalid limit")
		return
	}

	feed, err := h.goalService.Feed(user, limit)
	if err != nil {
		respondError(w, r, err, "failed to get feed", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
