package service

import (
	"context"
	"time"

	"github.com/condovia/condovia-backend/internal/user/domain"
	"github.com/condovia/condovia-backend/internal/user/repository"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/logger"
	"github.com/condovia/condovia-backend/pkg/messaging"
	"github.com/condovia/condovia-backend/pkg/passhash"
)

// UserService handles user business logic
type UserService struct {
	userRepo  *repository.UserRepository
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, publisher *messaging.Publisher, log *logger.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
		logger:    log,
	}
}

// CreateUserRequest represents a create user request
type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"required"`
	FullName  string  `json:"full_name" validate:"required,min=2"`
	CondoUnit *string `json:"condo_unit"`
	Phone     *string `json:"phone"`
}

// UserDisplay is the projection used by the user list view.
type UserDisplay struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	FullName  string  `json:"full_name"`
	CondoUnit *string `json:"condo_unit,omitempty"`
	IsActive  bool    `json:"is_active"`
	LastLogin *string `json:"last_login,omitempty"`
}

// Authenticate verifies credentials and touches last_login on success.
// Every failure path returns the same unified error so callers cannot
// enumerate usernames.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch user during authentication")
		return nil, errors.InvalidCredentials()
	}
	if user == nil || !user.IsActive {
		return nil, errors.InvalidCredentials()
	}

	if !passhash.Verify(password, user.PasswordHash) {
		return nil, errors.InvalidCredentials()
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC())
	return user, nil
}

// CreateUser hashes the password and delegates to the repository.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*domain.User, error) {
	hash, err := passhash.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user, err := s.userRepo.Create(ctx, &repository.UserDraft{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		CondoUnit:    req.CondoUnit,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, messaging.EventUserCreated, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish user created event")
	}

	return user, nil
}

// GetUsersForDisplay returns the projection used by the list view.
func (s *UserService) GetUsersForDisplay(ctx context.Context) ([]*UserDisplay, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	display := make([]*UserDisplay, 0, len(users))
	for _, u := range users {
		d := &UserDisplay{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      string(u.Role),
			FullName:  u.FullName,
			CondoUnit: u.CondoUnit,
			IsActive:  u.IsActive,
		}
		if u.LastLogin != nil {
			formatted := u.LastLogin.UTC().Format(time.RFC3339)
			d.LastLogin = &formatted
		}
		display = append(display, d)
	}
	return display, nil
}

// GetUserDetailsByUsername returns the API detail projection for a user.
func (s *UserService) GetUserDetailsByUsername(ctx context.Context, username string) (map[string]interface{}, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}
	return s.UserDetailsForAPI(user), nil
}

// UserDetailsForAPI builds the API view of a user: the password hash is
// omitted and role-derived permission booleans are included.
func (s *UserService) UserDetailsForAPI(user *domain.User) map[string]interface{} {
	details := map[string]interface{}{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       string(user.Role),
		"full_name":  user.FullName,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339),
		"permissions": map[string]bool{
			"can_manage_users":    user.CanManageUsers(),
			"can_access_finances": user.CanAccessFinances(),
		},
	}
	if user.CondoUnit != nil {
		details["condo_unit"] = *user.CondoUnit
	}
	if user.Phone != nil {
		details["phone"] = *user.Phone
	}
	if user.LastLogin != nil {
		details["last_login"] = user.LastLogin.UTC().Format(time.RFC3339)
	}
	return details
}

// DeleteUserByUsername removes a user by username.
func (s *UserService) DeleteUserByUsername(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.NotFound("user")
	}

	deleted, err := s.userRepo.Delete(ctx, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("user")
	}

	if err := s.publisher.Publish(ctx, messaging.EventUserDeleted, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish user deleted event")
	}
	return nil
}

// UpdateUser merges a patch into a user record.
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch *repository.UserPatch) (*domain.User, error) {
	return s.userRepo.Update(ctx, id, patch)
}
