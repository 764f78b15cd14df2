package database

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSQLiteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "unique username",
			err:         stderrors.New("sqlite3: constraint failed: UNIQUE constraint failed: users.username"),
			wantCode:    "CONFLICT",
			wantStatus:  409,
			wantMessage: "a user with this username already exists",
		},
		{
			name:        "unique email",
			err:         stderrors.New("UNIQUE constraint failed: users.email"),
			wantCode:    "CONFLICT",
			wantStatus:  409,
			wantMessage: "a user with this email already exists",
		},
		{
			name:        "unique unit number",
			err:         stderrors.New("UNIQUE constraint failed: units.project_id, units.unit_number"),
			wantCode:    "CONFLICT",
			wantStatus:  409,
			wantMessage: "a unit with this number already exists in the project",
		},
		{
			name:        "unique unknown column",
			err:         stderrors.New("UNIQUE constraint failed: widgets.serial"),
			wantCode:    "CONFLICT",
			wantStatus:  409,
			wantMessage: "a record with these values already exists",
		},
		{
			name:       "foreign key",
			err:        stderrors.New("sqlite3: constraint failed: FOREIGN KEY constraint failed"),
			wantCode:   "CONSTRAINT_VIOLATION",
			wantStatus: 409,
		},
		{
			name:       "check constraint",
			err:        stderrors.New("CHECK constraint failed: status IN ('available','sold','reserved','maintenance')"),
			wantCode:   "CONSTRAINT_VIOLATION",
			wantStatus: 409,
		},
		{
			name:       "not null",
			err:        stderrors.New("NOT NULL constraint failed: units.owner_name"),
			wantCode:   "VALIDATION_ERROR",
			wantStatus: 400,
		},
		{
			name:       "busy",
			err:        stderrors.New("database is locked"),
			wantCode:   "DB_BUSY",
			wantStatus: 503,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapSQLiteError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, appErr.Message)
			}
		})
	}
}

func TestMapSQLiteErrorNotNullDetails(t *testing.T) {
	appErr := MapSQLiteError(stderrors.New("NOT NULL constraint failed: units.owner_name"))
	require.NotNil(t, appErr)
	assert.Equal(t, map[string]string{"owner_name": "must not be empty"}, appErr.Details)
}

func TestMapSQLiteErrorUnrecognized(t *testing.T) {
	assert.Nil(t, MapSQLiteError(nil))
	assert.Nil(t, MapSQLiteError(stderrors.New("some unrelated failure")))
}
