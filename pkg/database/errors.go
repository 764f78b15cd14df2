package database

import (
	"strings"

	"github.com/condovia/condovia-backend/pkg/errors"
)

// MapSQLiteError converts a SQLite driver error to an AppError with a
// meaningful message. SQLite reports constraint failures in the error text
// (e.g. "UNIQUE constraint failed: users.username"), so classification is
// by message. Returns nil if the error is not recognized.
func MapSQLiteError(err error) *errors.AppError {
	if err == nil {
		return nil
	}
	msg := err.Error()

	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errors.Conflict(formatUniqueMessage(msg))

	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.Constraint("referenced record does not exist")

	case strings.Contains(msg, "CHECK constraint failed"):
		return errors.Constraint("data validation failed: " + afterColon(msg))

	case strings.Contains(msg, "NOT NULL constraint failed"):
		return errors.Validation(map[string]string{
			afterDot(afterColon(msg)): "must not be empty",
		})

	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "database table is locked"),
		strings.Contains(msg, "SQLITE_BUSY"):
		return errors.DBBusy()

	default:
		return nil
	}
}

// formatUniqueMessage creates a user-friendly message for unique violations.
func formatUniqueMessage(msg string) string {
	column := afterColon(msg)

	switch {
	case strings.Contains(column, "username"):
		return "a user with this username already exists"
	case strings.Contains(column, "email"):
		return "a user with this email already exists"
	case strings.Contains(column, "unit_number"):
		return "a unit with this number already exists in the project"
	case strings.Contains(column, "project_id"):
		return "a project with this identifier already exists"
	case strings.Contains(column, "flag_name"):
		return "a feature flag with this name already exists"
	case strings.Contains(column, "migration_name"):
		return "this migration has already been recorded"
	default:
		return "a record with these values already exists"
	}
}

func afterColon(msg string) string {
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func afterDot(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
