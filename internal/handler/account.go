package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/validation"
)

type AccountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userService: userService,
	}
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// DeleteAccount removes the signed-in user, their goals and their activity.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req deleteAccountRequest
	err := readJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.userService.DeleteAccount(user.ID, req.Password)
	if errors.Is(err, service.ErrInvalidCurrentPassword) {
		slog.Warn("account deletion refused: wrong password", "user_id", user.ID)
		respondError(w, r, validation.Field("password", "Password is incorrect."), "")
		return
	}
	if err != nil {
		respondError(w, r, err, "account deletion failed", "user_id", user.ID)
		return
	}

	slog.Info("account deleted", "user_id", user.ID, "email", user.Email)
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
