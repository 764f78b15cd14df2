package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/condovia-backend/internal/user/repository"
	"github.com/condovia/condovia-backend/internal/user/service"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/testutil"
)

func newService(t *testing.T) *service.UserService {
	t.Helper()
	log := testutil.NewTestLogger()
	repo := repository.NewUserRepository(testutil.OpenTestDB(t), log)
	return service.NewUserService(repo, nil, log)
}

func createUser(t *testing.T, s *service.UserService, username, role, password string) {
	t.Helper()
	_, err := s.CreateUser(context.Background(), &service.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Role:     role,
		FullName: "Maria Lopez",
	})
	require.NoError(t, err)
}

func TestAuthenticateSuccess(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	createUser(t, s, "mlopez", "resident", "secret123")

	user, err := s.Authenticate(ctx, "mlopez", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "mlopez", user.Username)

	// last_login was touched.
	details, err := s.GetUserDetailsByUsername(ctx, "mlopez")
	require.NoError(t, err)
	assert.Contains(t, details, "last_login")
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	createUser(t, s, "mlopez", "resident", "secret123")
	createUser(t, s, "inactive", "resident", "secret123")

	inactive := false
	found, err := s.GetUserDetailsByUsername(ctx, "inactive")
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, int64(found["id"].(int64)), &repository.UserPatch{IsActive: &inactive})
	require.NoError(t, err)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "mlopez", "wrong"},
		{"unknown user", "ghost", "secret123"},
		{"inactive user", "inactive", "secret123"},
		{"empty password", "mlopez", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, tc.username, tc.password)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
			assert.Equal(t, "invalid username or password", appErr.Message)
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &service.CreateUserRequest{
		Username: "mlopez",
		Email:    "mlopez@example.com",
		Password: "secret123",
		Role:     "admin",
		FullName: "Maria Lopez",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, ":")

	// The hash round-trips through authentication.
	_, err = s.Authenticate(ctx, "mlopez", "secret123")
	assert.NoError(t, err)
}

func TestUserDetailsOmitHashAndCarryPermissions(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	createUser(t, s, "admin1", "admin", "secret123")
	createUser(t, s, "res1", "resident", "secret123")
	createUser(t, s, "guest1", "guest", "secret123")

	tests := []struct {
		username    string
		canManage   bool
		canFinances bool
	}{
		{"admin1", true, true},
		{"res1", false, true},
		{"guest1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			details, err := s.GetUserDetailsByUsername(ctx, tt.username)
			require.NoError(t, err)

			assert.NotContains(t, details, "password_hash")
			perms, ok := details["permissions"].(map[string]bool)
			require.True(t, ok)
			assert.Equal(t, tt.canManage, perms["can_manage_users"])
			assert.Equal(t, tt.canFinances, perms["can_access_finances"])
		})
	}
}

func TestGetUserDetailsNotFound(t *testing.T) {
	s := newService(t)

	_, err := s.GetUserDetailsByUsername(context.Background(), "ghost")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestGetUsersForDisplay(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	createUser(t, s, "mlopez", "resident", "secret123")
	createUser(t, s, "jgarcia", "admin", "secret123")

	users, err := s.GetUsersForDisplay(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	for _, u := range users {
		assert.NotZero(t, u.ID)
		assert.True(t, u.IsActive)
		assert.Nil(t, u.LastLogin, "no login recorded yet")
	}
}

func TestDeleteUserByUsername(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	createUser(t, s, "mlopez", "resident", "secret123")

	require.NoError(t, s.DeleteUserByUsername(ctx, "mlopez"))

	err := s.DeleteUserByUsername(ctx, "mlopez")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
