package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/condovia/condovia-backend/internal/user/domain"
	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// UserRepository handles user persistence. Uniqueness of username and email
// is enforced by the SQL schema; calls use short per-call transactions and
// no cross-call locking.
type UserRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, log *logger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log}
}

// UserDraft is the input for creating a user. The password is hashed by the
// caller; the repository never sees plaintext.
type UserDraft struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	FullName     string
	CondoUnit    *string
	Phone        *string
}

// UserPatch carries a partial update; nil fields are left unchanged.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
	FullName     *string
	CondoUnit    *string
	Phone        *string
	IsActive     *bool
}

const userColumns = `id, username, email, password_hash, role, full_name,
	condo_unit, phone, is_active, created_at, last_login`

// Create validates the draft and inserts a new user.
func (r *UserRepository) Create(ctx context.Context, draft *UserDraft) (*domain.User, error) {
	role, err := r.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, full_name, condo_unit, phone, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		draft.Username, draft.Email, draft.PasswordHash, string(role),
		draft.FullName, draft.CondoUnit, draft.Phone, time.Now().UTC(),
	)
	if err != nil {
		if appErr := database.MapSQLiteError(err); appErr != nil {
			return nil, appErr
		}
		return nil, errors.Internal("failed to create user")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Internal("failed to read inserted user id")
	}

	return r.GetByID(ctx, id)
}

// GetByID gets a user by ID; nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username; nil when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll returns all users. Ordering is unspecified.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users`); err != nil {
		return nil, err
	}
	return users, nil
}

// Update merges the non-nil patch fields into the user and returns the
// updated record. Patched fields follow the same validation rules as Create.
func (r *UserRepository) Update(ctx context.Context, id int64, patch *UserPatch) (*domain.User, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NotFound("user")
	}

	var sets []string
	var args []interface{}

	if patch.Username != nil {
		if len(*patch.Username) < 3 {
			return nil, errors.Validation(map[string]string{"username": "must be at least 3 characters"})
		}
		sets = append(sets, "username = ?")
		args = append(args, *patch.Username)
	}
	if patch.Email != nil {
		if !strings.Contains(*patch.Email, "@") {
			return nil, errors.Validation(map[string]string{"email": "must be a valid email address"})
		}
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.PasswordHash != nil {
		if *patch.PasswordHash == "" {
			return nil, errors.Validation(map[string]string{"password_hash": "must not be empty"})
		}
		sets = append(sets, "password_hash = ?")
		args = append(args, *patch.PasswordHash)
	}
	if patch.Role != nil {
		role, err := domain.ParseRole(*patch.Role)
		if err != nil {
			return nil, errors.Validation(map[string]string{"role": "must be one of: admin, resident, guest"})
		}
		sets = append(sets, "role = ?")
		args = append(args, string(role))
	}
	if patch.FullName != nil {
		if len(*patch.FullName) < 2 {
			return nil, errors.Validation(map[string]string{"full_name": "must be at least 2 characters"})
		}
		sets = append(sets, "full_name = ?")
		args = append(args, *patch.FullName)
	}
	if patch.CondoUnit != nil {
		sets = append(sets, "condo_unit = ?")
		args = append(args, *patch.CondoUnit)
	}
	if patch.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}

	if len(sets) == 0 {
		return existing, nil
	}

	args = append(args, id)
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if appErr := database.MapSQLiteError(err); appErr != nil {
			return nil, appErr
		}
		return nil, errors.Internal("failed to update user")
	}

	return r.GetByID(ctx, id)
}

// Delete removes a user. Returns true iff a row was removed.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// UpdateLastLogin records a successful login. Failures are logged and
// swallowed: a stale last_login must never fail an authentication.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, ts.UTC(), id)
	if err != nil {
		r.logger.Warn().Err(err).Int64("user_id", id).Msg("failed to update last_login")
	}
}

// validateDraft checks the create preconditions and normalizes the role.
func (r *UserRepository) validateDraft(draft *UserDraft) (domain.Role, error) {
	details := make(map[string]string)

	if len(draft.Username) < 3 {
		details["username"] = "must be at least 3 characters"
	}
	if !strings.Contains(draft.Email, "@") {
		details["email"] = "must be a valid email address"
	}
	if draft.PasswordHash == "" {
		details["password_hash"] = "must not be empty"
	}
	if len(draft.FullName) < 2 {
		details["full_name"] = "must be at least 2 characters"
	}

	role, err := domain.ParseRole(draft.Role)
	if err != nil {
		details["role"] = "must be one of: admin, resident, guest"
	}

	if len(details) > 0 {
		return "", errors.Validation(details)
	}
	return role, nil
}
