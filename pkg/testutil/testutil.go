// Package testutil provides test fixtures backed by a throwaway SQLite
// database with the real migration files applied.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/logger"
	"github.com/condovia/condovia-backend/pkg/migrate"
)

// NewTestLogger returns a quiet logger for tests.
func NewTestLogger() *logger.Logger {
	return logger.NewFromConfig("test", logger.Config{Level: "error"})
}

// MigrationsDir returns the absolute path of data/migrations, resolved
// relative to this source file so tests in any package find it.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "data", "migrations")
}

// OpenTestDB opens a fresh database under t.TempDir() and applies all
// migrations. The database is closed when the test finishes.
func OpenTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "condovia_test.db")
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	log := NewTestLogger()
	db, err := database.NewWithDSN(dsn, log)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrator := migrate.New(db, MigrationsDir(), log)
	if err := migrator.Run(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// OpenBareDB opens a database without running migrations, for tests that
// exercise the migrator itself.
func OpenBareDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "condovia_bare.db")
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := database.NewWithDSN(dsn, NewTestLogger())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
