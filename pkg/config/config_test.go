package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, app, database, logging string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.json"), []byte(app), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "database.json"), []byte(database), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logging.json"), []byte(logging), 0o644))
	return dir
}

const (
	validApp = `{
		"host": "127.0.0.1",
		"port": 8080,
		"debug": false,
		"secret_key": "test-secret",
		"data_path": "data",
		"log_level": "info"
	}`
	validDatabase = `{
		"type": "sqlite",
		"path": "data/condovia.db",
		"migrations_path": "data/migrations",
		"timeout": 5000,
		"max_open_conns": 4
	}`
	validLogging = `{
		"global": {"enabled": true, "level": "info"},
		"handlers": {
			"console": {"enabled": true},
			"file": {"enabled": false, "path": "", "max_size_mb": 10}
		},
		"loggers": {
			"project": {"level": "debug"}
		}
	}`
)

func TestLoadValid(t *testing.T) {
	dir := writeConfigDir(t, validApp, validDatabase, validLogging)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.App.Host)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "test-secret", cfg.App.SecretKey)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "data/condovia.db", cfg.Database.Path)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)

	assert.Equal(t, "info", cfg.Logging.Global.Level)
	assert.Equal(t, map[string]string{"project": "debug"}, cfg.Logging.ModuleLevels())
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.json"), []byte(validApp), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.json")
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := writeConfigDir(t, `{"port": 8080,`, validDatabase, validLogging)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.json")
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		app      string
		database string
		logging  string
		wantMsg  string
	}{
		{
			name:     "port out of range",
			app:      `{"host": "0.0.0.0", "port": 70000, "secret_key": "s"}`,
			database: validDatabase,
			logging:  validLogging,
			wantMsg:  "port must be between",
		},
		{
			name:     "empty secret key",
			app:      `{"host": "0.0.0.0", "port": 8080, "secret_key": ""}`,
			database: validDatabase,
			logging:  validLogging,
			wantMsg:  "secret_key",
		},
		{
			name:     "unsupported database type",
			app:      validApp,
			database: `{"type": "postgres", "path": "x.db", "migrations_path": "m"}`,
			logging:  validLogging,
			wantMsg:  "unsupported database type",
		},
		{
			name:     "unknown log level",
			app:      validApp,
			database: validDatabase,
			logging:  `{"global": {"enabled": true, "level": "verbose"}, "handlers": {"console": {"enabled": true}, "file": {"enabled": false}}}`,
			wantMsg:  "unknown global log level",
		},
		{
			name:     "file handler without path",
			app:      validApp,
			database: validDatabase,
			logging:  `{"global": {"enabled": true, "level": "info"}, "handlers": {"console": {"enabled": true}, "file": {"enabled": true, "path": ""}}}`,
			wantMsg:  "no path configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfigDir(t, tt.app, tt.database, tt.logging)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Path: "data/test.db", BusyTimeoutMS: 5000}
	assert.Equal(t,
		"file:data/test.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)",
		cfg.DSN())

	// Zero timeout falls back to the default.
	cfg.BusyTimeoutMS = 0
	assert.Contains(t, cfg.DSN(), "busy_timeout(30000)")
}
