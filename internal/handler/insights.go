package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
)

const exportFilename = "lab_goals_export.csv"

type InsightsHandler struct {
	insightsService *service.InsightsService
}

func NewInsightsHandler(insightsService *service.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
	}
}

func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	insights, err := h.insightsService.Summary(user)
	if err != nil {
		respondError(w, r, err, "failed to build insights", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, insights)
}

func (h *InsightsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	data, err := h.insightsService.ExportCSV(user)
	if err != nil {
		respondError(w, r, err, "failed to export goals", "user_id", user.ID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename)

	_, err = w.Write(data)
	if err != nil {
		slog.Error("failed to write export", "error", err, "user_id", user.ID)
	}
}

// Archive stores a CSV snapshot in object storage and returns a download link.
func (h *InsightsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	url, err := h.insightsService.ArchiveExport(context.WithoutCancel(r.Context()), user)
	if err != nil {
		respondError(w, r, err, "failed to archive export", "user_id", user.ID)
		return
	}

	slog.Info("export archived", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
