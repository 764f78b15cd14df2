// Package migrate brings the database to the latest schema version by
// executing SQL migration files in order, each exactly once. It is the
// single writer of schema; no other component issues DDL.
package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// migrationFilePattern matches NNN_name.sql. Anything else in the
// migrations directory is ignored.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_.+\.sql$`)

const trackingTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		migration_name TEXT NOT NULL UNIQUE,
		executed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// Record is a row of schema_migrations.
type Record struct {
	ID            int64     `db:"id"`
	MigrationName string    `db:"migration_name"`
	ExecutedAt    time.Time `db:"executed_at"`
}

// Migrator applies SQL migration files from a directory.
type Migrator struct {
	db     *database.DB
	dir    string
	logger *logger.Logger
}

// New creates a migrator reading files from dir.
func New(db *database.DB, dir string, log *logger.Logger) *Migrator {
	return &Migrator{db: db, dir: dir, logger: log}
}

// Run applies all pending migrations in file-name order. Each file runs in
// its own transaction together with its schema_migrations record, so a
// failed migration leaves no trace. Running twice is a no-op.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, trackingTable); err != nil {
		return errors.MigrationFailed("schema_migrations", err)
	}

	files, err := m.pendingOrder()
	if err != nil {
		return err
	}

	applied, err := m.appliedSet(ctx)
	if err != nil {
		return err
	}

	for _, file := range files {
		if applied[file] {
			m.logger.Debug().Str("migration", file).Msg("migration already applied, skipping")
			continue
		}

		if err := m.applyOne(ctx, file); err != nil {
			return err
		}
		m.logger.Info().Str("migration", file).Msg("migration applied")
	}

	return nil
}

// Applied returns the recorded migrations, oldest first.
func (m *Migrator) Applied(ctx context.Context) ([]Record, error) {
	var records []Record
	err := m.db.SelectContext(ctx, &records,
		`SELECT id, migration_name, executed_at FROM schema_migrations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	return records, nil
}

// pendingOrder enumerates migration files sorted by numeric prefix and
// rejects prefix collisions: the order between 001_a.sql and 001_b.sql is
// undefined, so startup must fail rather than guess.
func (m *Migrator) pendingOrder() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errors.MigrationFailed(m.dir, err)
	}

	type numbered struct {
		prefix int
		name   string
	}
	var files []numbered
	seen := make(map[int]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		prefix, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if other, dup := seen[prefix]; dup {
			return nil, errors.MigrationFailed(entry.Name(),
				fmt.Errorf("duplicate migration prefix %03d: %s and %s", prefix, other, entry.Name()))
		}
		seen[prefix] = entry.Name()
		files = append(files, numbered{prefix: prefix, name: entry.Name()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].prefix < files[j].prefix })

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

func (m *Migrator) appliedSet(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := m.db.SelectContext(ctx, &names,
		`SELECT migration_name FROM schema_migrations`); err != nil {
		return nil, errors.MigrationFailed("schema_migrations", err)
	}

	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

// applyOne executes one migration file as a script and records it, all in a
// single transaction.
func (m *Migrator) applyOne(ctx context.Context, file string) error {
	script, err := os.ReadFile(filepath.Join(m.dir, file))
	if err != nil {
		return errors.MigrationFailed(file, err)
	}

	err = m.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (migration_name, executed_at) VALUES (?, ?)`,
			file, time.Now().UTC())
		return err
	})
	if err != nil {
		return errors.MigrationFailed(file, err)
	}
	return nil
}
