package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"airmap/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// DefaultPath returns airmap.db in the working directory, falling back to
// the executable's directory.
func DefaultPath() string {
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "airmap.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "airmap.db")
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS inspect_history (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp     TEXT NOT NULL,
				airport_id    INTEGER NOT NULL,
				code          TEXT NOT NULL,
				name          TEXT NOT NULL,
				one_hop       TEXT NOT NULL,
				two_hop       TEXT NOT NULL,
				one_hop_count INTEGER NOT NULL DEFAULT 0,
				two_hop_count INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_inspect_ts ON inspect_history(timestamp);
			CREATE INDEX IF NOT EXISTS idx_inspect_airport ON inspect_history(airport_id);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}
