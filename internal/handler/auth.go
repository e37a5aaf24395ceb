package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	goalService *service.GoalService
}

func NewAuthHandler(authService *service.AuthService, goalService *service.GoalService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		goalService: goalService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *model.User `json:"user"`
	GoalCount int         `json:"goal_count"`
}

// Register creates the account and signs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	err := readJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(in)
	if err != nil {
		respondError(w, r, err, "registration failed", "email", in.Email)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusCreated, sessionResponse{User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	err := readJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Login(in.Email, in.Password)
	if err != nil {
		respondError(w, r, err, "login failed")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	count, err := h.goalService.CountGoals(user)
	if err != nil {
		slog.Warn("failed to count goals", "error", err, "user_id", user.ID)
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, GoalCount: count})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) bool {
	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondError(w, r, err, "failed to generate session token", "user_id", user.ID)
		return false
	}
	h.authService.SetJWTCookie(w, token, expiry)
	return true
}

// Logout clears the session. Form posts from the dashboard are sent home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Home sends signed-in users to the dashboard and tells everyone else how to sign in.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.User(r.Context()) != nil {
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"csrf":     "GET /auth/csrf",
		"login":    "POST /auth/login",
		"register": "POST /auth/register",
	})
}

// CSRFToken hands API clients the token to echo in X-CSRF-Token.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": ctxkeys.CSRFToken(r.Context())})
}

// Me returns the signed-in user and how many goals they own.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	count, err := h.goalService.CountGoals(user)
	if err != nil {
		respondError(w, r, err, "failed to count goals", "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, GoalCount: count})
}
