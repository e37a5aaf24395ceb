package handler

import (
	"log/slog"
	"net/http"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/ui"
)

type DashboardHandler struct {
	appName       string
	goalService   *service.GoalService
	assistService *service.AssistService
	notes         ui.NoteRenderer
}

func NewDashboardHandler(appName string, goalService *service.GoalService, assistService *service.AssistService, notes ui.NoteRenderer) *DashboardHandler {
	return &DashboardHandler{
		appName:       appName,
		goalService:   goalService,
		assistService: assistService,
		notes:         notes,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.MyGoals(user)
	if err != nil {
		slog.Error("failed to get goals", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	feed, err := h.goalService.Feed(user, 0)
	if err != nil {
		slog.Error("failed to get feed", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, ui.Dashboard(ui.DashboardData{
		AppName:     h.appName,
		User:        user,
		GoalCount:   len(goals),
		MyGoals:     goals,
		AIAvailable: h.assistService.Available(),
		Feed:        feed,
		Notes:       h.notes,
	}))
}
