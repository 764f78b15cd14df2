package handler

import (
	"net/http"
	"time"

	"github.com/condovia/condovia-backend/internal/auth"
	"github.com/condovia/condovia-backend/internal/user/service"
	"github.com/condovia/condovia-backend/pkg/httputil"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// AuthHandler handles login endpoints
type AuthHandler struct {
	service    *service.UserService
	jwtManager *auth.Manager
	logger     *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.UserService, jwtManager *auth.Manager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:    svc,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string                 `json:"access_token"`
	TokenType   string                 `json:"token_type"`
	ExpiresAt   time.Time              `json:"expires_at"`
	User        map[string]interface{} `json:"user"`
}

// Login authenticates a user and returns a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	token, expiresAt, err := h.jwtManager.Generate(user.ID, user.Username, string(user.Role))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign session token")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        h.service.UserDetailsForAPI(user),
	})
}

// Me returns the detail view of the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := httputil.GetUsername(r.Context())

	details, err := h.service.GetUserDetailsByUsername(r.Context(), username)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, details)
}
