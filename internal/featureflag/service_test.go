package featureflag_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/condovia-backend/internal/featureflag"
	"github.com/condovia/condovia-backend/pkg/testutil"
)

func TestIsEnabled(t *testing.T) {
	db := testutil.OpenTestDB(t)
	s := featureflag.NewService(db, testutil.NewTestLogger())
	ctx := context.Background()

	// Seeded flags are on.
	assert.True(t, s.IsEnabled(ctx, "finance_module"))
	assert.True(t, s.IsEnabled(ctx, "analytics_module"))

	// Disabling takes effect on the very next read, no cache.
	_, err := db.ExecContext(ctx,
		`UPDATE feature_flags SET is_enabled = 0 WHERE flag_name = 'finance_module'`)
	require.NoError(t, err)
	assert.False(t, s.IsEnabled(ctx, "finance_module"))

	_, err = db.ExecContext(ctx,
		`UPDATE feature_flags SET is_enabled = 1 WHERE flag_name = 'finance_module'`)
	require.NoError(t, err)
	assert.True(t, s.IsEnabled(ctx, "finance_module"))
}

func TestIsEnabledMissingFlagFailsOpen(t *testing.T) {
	db := testutil.OpenTestDB(t)
	s := featureflag.NewService(db, testutil.NewTestLogger())

	assert.True(t, s.IsEnabled(context.Background(), "unknown_module"))
}

func TestIsEnabledReadErrorFailsOpen(t *testing.T) {
	mock := testutil.NewMockDB(t)
	defer mock.Close()

	s := featureflag.NewService(mock.DB, testutil.NewTestLogger())

	mock.ExpectQuery(`SELECT is_enabled FROM feature_flags WHERE flag_name = ?`).
		WillReturnError(stderrors.New("disk I/O error"))

	assert.True(t, s.IsEnabled(context.Background(), "finance_module"))
	mock.ExpectationsWereMet(t)
}

func TestRequireMiddleware(t *testing.T) {
	db := testutil.OpenTestDB(t)
	s := featureflag.NewService(db, testutil.NewTestLogger())

	handler := s.Require("reports_module")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := db.ExecContext(context.Background(),
		`UPDATE feature_flags SET is_enabled = 0 WHERE flag_name = 'reports_module'`)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}
