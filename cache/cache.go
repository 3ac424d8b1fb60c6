// ABOUTME: Local snapshot cache for entity collections
// ABOUTME: Persists the last successful fetch per entity in SQLite at an XDG path
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned by Load when no snapshot exists for the entity.
var ErrNoSnapshot = errors.New("no cached snapshot")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	entity TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);
`

// Store holds last-known-good copies of server collections so one-shot
// commands can render stale data when the service is unreachable.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// WAL mode with a single connection avoids database locked errors
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot for entity with the given items. Items must be
// JSON-marshalable; callers pass the slice a successful Load produced.
func (s *Store) Save(entity string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", entity, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (entity, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, entity, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", entity, err)
	}
	return nil
}

// Load decodes the stored snapshot for entity into out and reports when it
// was fetched. Returns ErrNoSnapshot when the entity was never cached.
func (s *Store) Load(entity string, out any) (time.Time, error) {
	var payload string
	var fetchedAt time.Time

	err := s.db.QueryRow(`
		SELECT payload, fetched_at FROM snapshots WHERE entity = ?
	`, entity).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s snapshot: %w", entity, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode %s snapshot: %w", entity, err)
	}
	return fetchedAt, nil
}
