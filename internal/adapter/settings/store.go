// Package settings persists operator settings as JSON values in SQLite.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Lookup when a key has never been set.
var ErrNotFound = errors.New("setting not found")

// Store is a key/value settings store. Values are JSON documents.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the settings database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	return err
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Lookup returns the raw JSON stored under key.
func (s *Store) Lookup(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Put stores raw JSON under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %q: value is not valid JSON", key)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Entry is one stored setting.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// All returns every stored setting ordered by key.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, Entry{Key: key, Value: json.RawMessage(value)})
	}
	return out, rows.Err()
}

// Decode unmarshals the value under key into dst and reports whether it did.
// A missing key leaves dst untouched; read or decode failures are logged and
// also leave dst untouched.
func (s *Store) Decode(ctx context.Context, key string, dst any) bool {
	raw, err := s.Lookup(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("settings read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("settings decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value as JSON. Failures are logged and otherwise ignored.
func (s *Store) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("settings encode failed", "key", key, "error", err)
		return
	}
	if err := s.Put(ctx, key, raw); err != nil {
		s.logger.Warn("settings write failed", "key", key, "error", err)
	}
}

// Get returns the value under key decoded as T, or def when the key is
// missing or unreadable.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	v := def
	if !s.Decode(ctx, key, &v) {
		return def
	}
	return v
}
