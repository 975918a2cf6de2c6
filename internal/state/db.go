package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection holding the instance ledger.
type DB struct {
	conn *sql.DB
}

// DefaultPath returns the state database location:
// $XDG_STATE_HOME/sqlbox/state.db, falling back to ~/.sqlbox/state.db.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sqlbox", "state.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".sqlbox", "state.db"), nil
}

// Open creates or opens a SQLite database at the given path.
// It enables WAL mode, foreign keys, and runs migrations. Parent
// directories are created as needed.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates or updates the database schema
func (db *DB) migrate() error {
	schema := `
-- Instances table: every container sqlbox has created
CREATE TABLE IF NOT EXISTS instances (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    engine          TEXT NOT NULL,
    image           TEXT NOT NULL,
    host_port       INTEGER NOT NULL,
    container_id    TEXT NOT NULL,
    status          TEXT NOT NULL,
    created_at      DATETIME NOT NULL,
    removed_at      DATETIME
);

-- One live instance per name; removed instances keep their history rows
CREATE UNIQUE INDEX IF NOT EXISTS idx_instances_active_name
    ON instances(name) WHERE removed_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_instances_status ON instances(status);
`

	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
