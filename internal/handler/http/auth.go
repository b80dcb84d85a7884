package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
	"github.com/Yangluigie/Reto-Factus/pkg/httputil"
	"github.com/Yangluigie/Reto-Factus/pkg/middleware"
	"github.com/Yangluigie/Reto-Factus/pkg/validator"

	"github.com/Yangluigie/Reto-Factus/internal/service"
)

// AuthHandler handles HTTP requests for the session endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the opaque session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "invalid request body: " + err.Error(),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		// Missing credentials are an authentication failure, not a schema
		// error, to keep the response indistinguishable from a bad password.
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{
				Error: "invalid username or password",
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /logout/
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.SessionTokenFromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)
	if token == "" || userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing session"), h.logger)
		return
	}

	if err := h.service.Logout(ctx, token, userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.MessageBody{
		Message: "session closed successfully",
	})
}
