package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// readJSON decodes the request body into v. Unknown fields are rejected so
// typos in field names surface as errors instead of silent defaults.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryLimit parses ?limit=. Missing means 0, which services treat as their default.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, validation.Field("limit", "limit must be a positive number")
	}
	return n, nil
}

// respondError maps service errors to status codes. Anything unexpected is
// logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error, logMsg string, attrs ...any) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "Please fix the highlighted fields.",
			Fields: verrs,
		})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "That email is already registered.")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, service.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "Goal not found.")
	case errors.Is(err, service.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "Only the goal owner or a mentor can do that.")
	case errors.Is(err, service.ErrArchiveDisabled):
		writeError(w, http.StatusServiceUnavailable, "Export archive is not configured.")
	default:
		ctx := r.Context()
		attrs = append([]any{
			"error", err,
			"request_id", ctxkeys.RequestID(ctx),
			"path", ctxkeys.URLPath(ctx),
		}, attrs...)
		slog.ErrorContext(ctx, logMsg, attrs...)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
