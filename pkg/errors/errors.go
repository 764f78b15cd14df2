package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDBBusy             = errors.New("database busy")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidCredentials returns the unified authentication failure. The message
// never distinguishes an unknown user from a wrong password.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid username or password",
		StatusCode: http.StatusUnauthorized,
	}
}

// AmbiguousName indicates a name-based lookup matched more than one record.
func AmbiguousName(resource string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "AMBIGUOUS_NAME",
		Message:    fmt.Sprintf("multiple %s records match this name", resource),
		StatusCode: http.StatusConflict,
	}
}

// CannotShrink indicates a unit-count reduction would remove units that are
// no longer removable placeholders.
func CannotShrink(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CANNOT_SHRINK",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// Constraint indicates a check or foreign-key violation during a write.
func Constraint(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONSTRAINT_VIOLATION",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// DBBusy indicates the store timed out waiting for its write lock.
func DBBusy() *AppError {
	return &AppError{
		Err:        ErrDBBusy,
		Code:       "DB_BUSY",
		Message:    "database is busy, retry later",
		StatusCode: http.StatusServiceUnavailable,
	}
}

// ConfigInvalid indicates a configuration file is missing or malformed.
func ConfigInvalid(path string, err error) *AppError {
	return &AppError{
		Err:        err,
		Code:       "CONFIG_INVALID",
		Message:    fmt.Sprintf("invalid configuration: %s", path),
		StatusCode: http.StatusInternalServerError,
	}
}

// MigrationFailed indicates a schema migration aborted; startup must not
// continue past it.
func MigrationFailed(file string, err error) *AppError {
	return &AppError{
		Err:        err,
		Code:       "MIGRATION_FAILED",
		Message:    fmt.Sprintf("migration %s failed", file),
		StatusCode: http.StatusInternalServerError,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
