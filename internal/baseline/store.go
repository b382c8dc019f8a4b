// Package baseline persists known-good sweeps in SQLite and records the outcome of
// every check run against them.
package baseline

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Options tune how a Store writes documents.
type Options struct {
	// Compress stores sweep documents zstd-compressed.
	Compress bool
}

// Store is the baseline database.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
	opts   Options
}

// Open opens or creates the baseline database at dbPath.
func Open(dbPath string, logger *slog.Logger, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps foreign keys enforced.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-16000", // 16MB cache
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
		opts:   opts,
	}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize baseline schema: %w", err)
	}

	logger.Debug("Opened baseline store", "path", dbPath, "compress", opts.Compress)
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS baselines (
			id TEXT PRIMARY KEY,
			feature TEXT NOT NULL,
			name TEXT NOT NULL,
			mode TEXT NOT NULL,
			entries INTEGER NOT NULL,
			digest TEXT NOT NULL,
			created_at TEXT NOT NULL,
			compressed INTEGER NOT NULL DEFAULT 0,
			document BLOB NOT NULL,
			UNIQUE(feature, name)
		);
		CREATE INDEX IF NOT EXISTS idx_baselines_feature ON baselines(feature);

		CREATE TABLE IF NOT EXISTS checks (
			id TEXT PRIMARY KEY,
			baseline_id TEXT NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			passed INTEGER NOT NULL,
			differences INTEGER NOT NULL,
			report TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_checks_baseline ON checks(baseline_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return err
	}
	_, err := s.conn.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion)
	return err
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
