package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var ErrBadMigrationName = errors.New("storage: migration file has no version prefix")

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

type migration struct {
	version string
	file    string
}

// MigrateUp applies every pending up migration in version order. Each
// applied version is recorded in schema_migrations, so running it again
// on an up-to-date database is a no-op.
func MigrateUp(db *sql.DB) error {
	migrations, applied, err := migrationState(db, ".up.sql")
	if err != nil {
		return err
	}
	for _, mig := range migrations {
		if applied[mig.version] {
			continue
		}
		if err := runMigration(db, mig, true); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown rolls back the applied migrations in reverse version order.
// Versions never applied are skipped.
func MigrateDown(db *sql.DB) error {
	migrations, applied, err := migrationState(db, ".down.sql")
	if err != nil {
		return err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		mig := migrations[i]
		if !applied[mig.version] {
			continue
		}
		if err := runMigration(db, mig, false); err != nil {
			return err
		}
	}
	return nil
}

// AppliedVersions lists the recorded migration versions in ascending order.
func AppliedVersions(db *sql.DB) ([]string, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	return out, rows.Err()
}

func migrationState(db *sql.DB, suffix string) ([]migration, map[string]bool, error) {
	versions, err := AppliedVersions(db)
	if err != nil {
		return nil, nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}

	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, nil, fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)

	migrations := make([]migration, 0, len(entries))
	for _, file := range entries {
		version, _, ok := strings.Cut(strings.TrimPrefix(file, "migrations/"), "_")
		if !ok || version == "" {
			return nil, nil, fmt.Errorf("%w: %q", ErrBadMigrationName, file)
		}
		migrations = append(migrations, migration{version: version, file: file})
	}
	return migrations, applied, nil
}

// runMigration executes one migration file and its schema_migrations
// bookkeeping inside a single transaction.
func runMigration(db *sql.DB, mig migration, up bool) error {
	raw, err := migrationFiles.ReadFile(mig.file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", mig.file, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", mig.file, err)
	}
	if _, err := tx.Exec(string(raw)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", mig.file, err)
	}
	if up {
		_, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", mig.version)
	} else {
		_, err = tx.Exec("DELETE FROM schema_migrations WHERE version = ?", mig.version)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", mig.file, err)
	}
	return tx.Commit()
}
