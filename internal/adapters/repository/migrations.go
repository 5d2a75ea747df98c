package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func applyMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  filename TEXT PRIMARY KEY,
  installed_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return nil, fmt.Errorf("%w: create schema_migrations: %v", ErrMigrate, err)
	}

	applied, err := loadAppliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMigrate, err)
	}
	sort.Strings(files)

	var ran []string
	for _, path := range files {
		name := strings.TrimPrefix(path, "migrations/")
		if applied[name] {
			continue
		}
		content, err := migrationFS.ReadFile(path)
		if err != nil {
			return ran, fmt.Errorf("%w: read %s: %v", ErrMigrate, name, err)
		}
		if err := applyMigration(ctx, db, name, string(content)); err != nil {
			return ran, err
		}
		ran = append(ran, name)
	}
	return ran, nil
}

func loadAppliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("%w: load schema_migrations: %v", ErrMigrate, err)
	}
	defer func() { _ = rows.Close() }()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMigrate, err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, name, content string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMigrate, name, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range strings.Split(content, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMigrate, name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMigrate, name, err)
	}
	return tx.Commit()
}
