package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is a user role. Roles are stored canonical lowercase; ParseRole is
// the single normalization path.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
	RoleGuest    Role = "guest"
)

// ParseRole normalizes a role string to its canonical form.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleResident:
		return RoleResident, nil
	case RoleGuest:
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an authenticated principal
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	FullName     string     `json:"full_name" db:"full_name"`
	CondoUnit    *string    `json:"condo_unit,omitempty" db:"condo_unit"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// CanManageUsers reports whether the role grants user administration.
func (u *User) CanManageUsers() bool {
	return u.Role == RoleAdmin
}

// CanAccessFinances reports whether the role grants access to the finance
// module. Guests are read-only visitors and get neither.
func (u *User) CanAccessFinances() bool {
	return u.Role == RoleAdmin || u.Role == RoleResident
}
