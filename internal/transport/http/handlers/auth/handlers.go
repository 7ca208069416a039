package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, login, password string) (auth.Session, error)
	Refresh(ctx context.Context, caller auth.UserContext) (auth.Session, error)
	CurrentUser(ctx context.Context, caller auth.UserContext) (auth.User, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

// loginRequest accepts either a username or an email as the login name.
type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email,max=254"`
	Email    string `json:"email" validate:"omitempty,max=254"`
	Password string `json:"password" validate:"required"`
}

func (p loginRequest) login() string {
	if value := strings.TrimSpace(p.Username); value != "" {
		return value
	}
	return strings.TrimSpace(p.Email)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.BindJSON(w, r, &payload) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.login(), payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to login", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	session, err := h.Service.Refresh(r.Context(), user)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusUnauthorized, "invalid_token", "user no longer exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "refresh_failed", "failed to refresh token", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	current, err := h.Service.CurrentUser(r.Context(), user)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusUnauthorized, "invalid_token", "user no longer exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "verify_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"valid": true, "user": current}, middleware.GetRequestID(r.Context()))
}
