package repository_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/condovia-backend/internal/user/domain"
	"github.com/condovia/condovia-backend/internal/user/repository"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/testutil"
)

func newRepo(t *testing.T) *repository.UserRepository {
	t.Helper()
	return repository.NewUserRepository(testutil.OpenTestDB(t), testutil.NewTestLogger())
}

func draft(username, email string) *repository.UserDraft {
	return &repository.UserDraft{
		Username:     username,
		Email:        email,
		PasswordHash: "deadbeef:cafebabe",
		Role:         "resident",
		FullName:     "Maria Lopez",
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "mlopez", user.Username)
	assert.Equal(t, domain.RoleResident, user.Role)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.LastLogin)

	byName, err := repo.GetByUsername(ctx, "mlopez")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	absent, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestCreateNormalizesRole(t *testing.T) {
	repo := newRepo(t)

	d := draft("mlopez", "mlopez@example.com")
	d.Role = " ADMIN "

	user, err := repo.Create(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestCreateValidation(t *testing.T) {
	repo := newRepo(t)

	d := &repository.UserDraft{
		Username:     "ab",
		Email:        "not-an-email",
		PasswordHash: "",
		Role:         "superuser",
		FullName:     "x",
	}
	_, err := repo.Create(context.Background(), d)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Details, "username")
	assert.Contains(t, appErr.Details, "email")
	assert.Contains(t, appErr.Details, "password_hash")
	assert.Contains(t, appErr.Details, "role")
	assert.Contains(t, appErr.Details, "full_name")
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, draft("mlopez", "other@example.com"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "username")
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, draft("mlopez", "shared@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, draft("jgarcia", "shared@example.com"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "email")
}

func TestGetAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, draft("jgarcia", "jgarcia@example.com"))
	require.NoError(t, err)

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	fullName := "Maria Elena Lopez"
	role := "admin"
	inactive := false
	updated, err := repo.Update(ctx, user.ID, &repository.UserPatch{
		FullName: &fullName,
		Role:     &role,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Maria Elena Lopez", updated.FullName)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "mlopez", updated.Username, "unpatched fields unchanged")
}

func TestUpdateEmptyPatch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	same, err := repo.Update(ctx, user.ID, &repository.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, user.ID, same.ID)
	assert.Equal(t, user.Username, same.Username)
}

func TestUpdateValidation(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	badEmail := "not-an-email"
	_, err = repo.Update(ctx, user.ID, &repository.UserPatch{Email: &badEmail})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUpdateMissingUser(t *testing.T) {
	repo := newRepo(t)

	name := "Maria Lopez"
	_, err := repo.Update(context.Background(), 99999, &repository.UserPatch{FullName: &name})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err = repo.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdateLastLogin(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, draft("mlopez", "mlopez@example.com"))
	require.NoError(t, err)

	ts := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	repo.UpdateLastLogin(ctx, user.ID, ts)

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
	assert.True(t, reloaded.LastLogin.Equal(ts))
}

func TestUpdateLastLoginSwallowsErrors(t *testing.T) {
	mock := testutil.NewMockDB(t)
	defer mock.Close()

	repo := repository.NewUserRepository(mock.DB, testutil.NewTestLogger())

	mock.ExpectExec(`UPDATE users SET last_login = ? WHERE id = ?`).
		WillReturnError(stderrors.New("disk I/O error"))

	// Must not panic or surface the failure.
	repo.UpdateLastLogin(context.Background(), 1, time.Now())
	mock.ExpectationsWereMet(t)
}
