package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/condovia/condovia-backend/internal/user/repository"
	"github.com/condovia/condovia-backend/internal/user/service"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/httputil"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// UserHandler handles user endpoints
type UserHandler struct {
	service *service.UserService
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  log,
	}
}

// List lists all users in the display projection
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsersForDisplay(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, users)
}

// Get returns the API detail view for a user by username
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	details, err := h.service.GetUserDetailsByUsername(r.Context(), username)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, details)
}

// Create creates a new user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, h.service.UserDetailsForAPI(user))
}

// UpdateRequest is the JSON body for updating a user
type UpdateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role"`
	FullName  *string `json:"full_name"`
	CondoUnit *string `json:"condo_unit"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

// Update merges a patch into a user by id
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid user id"))
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, &repository.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		FullName:  req.FullName,
		CondoUnit: req.CondoUnit,
		Phone:     req.Phone,
		IsActive:  req.IsActive,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, h.service.UserDetailsForAPI(user))
}

// Delete removes a user by username
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.service.DeleteUserByUsername(r.Context(), username); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}
