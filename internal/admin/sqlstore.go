package admin

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLStore persists scope level maps in SQLite.
type SQLStore struct {
	db   *sql.DB
	path string
}

// OpenSQLStore opens or creates the admin database at path.
func OpenSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure admin store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLStore{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Load returns the persisted levels of scope, or nil when none are stored.
// Rows carrying unknown level names are skipped.
func (s *SQLStore) Load(ctx context.Context, scope string) (map[string]Level, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT logger, level FROM admin_levels WHERE scope = ?", scope)
	if err != nil {
		return nil, fmt.Errorf("query admin levels: %w", err)
	}
	defer rows.Close()

	var levels map[string]Level
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, fmt.Errorf("scan admin level: %w", err)
		}
		level, err := ParseLevel(label)
		if err != nil {
			continue
		}
		if levels == nil {
			levels = make(map[string]Level)
		}
		levels[name] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin levels: %w", err)
	}
	return levels, nil
}

// Save replaces the stored levels of scope in one transaction.
func (s *SQLStore) Save(ctx context.Context, scope string, levels map[string]Level) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM admin_levels WHERE scope = ?", scope); err != nil {
		return fmt.Errorf("clear scope %q: %w", scope, err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for name, level := range levels {
		if !level.Valid() {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO admin_levels (scope, logger, level, updated_at) VALUES (?, ?, ?, ?)",
			scope, name, level.String(), timestamp,
		); err != nil {
			return fmt.Errorf("insert level %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}
