// Package store is the embedded key-value persistence layer. Values are JSON
// snapshots kept in a single SQLite file inside a data directory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"patient-records/internal/logger"
)

const (
	// FileName is the database file created inside the data directory.
	FileName = "records.db"

	schema = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL
)`
)

var (
	ErrEmptyKey = errors.New("store: empty key")
	ErrNotFound = errors.New("store: key not found")
	ErrClosed   = errors.New("store: closed")
)

// Options tune an opened store.
type Options struct {
	DecodePolicy DecodePolicy
	Logger       logger.Logger
}

// Store is a durable string-keyed record store. It is owned by a single
// process; every write is flushed before it returns. Close may run on another
// goroutine than the callers: it waits for in-flight operations, and later
// ones get ErrClosed.
type Store struct {
	db     *sql.DB
	dir    string
	policy DecodePolicy
	logger logger.Logger

	mu     sync.RWMutex
	closed bool
}

// Open creates dir if needed and opens the store inside it.
func Open(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer, one reader: the same connection serves both.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		db:     db,
		dir:    dir,
		policy: opts.DecodePolicy,
		logger: log,
	}
	log.Debug("Store", "opened", map[string]interface{}{
		"dir":           dir,
		"decode_policy": s.policy.String(),
	})
	return s, nil
}

// Dir returns the data directory the store lives in.
func (s *Store) Dir() string {
	return s.dir
}

// Put serializes record and writes it under key, replacing any previous
// value.
func (s *Store) Put(ctx context.Context, key string, record interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if key == "" {
		return ErrEmptyKey
	}

	value, err := encode(record)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return s.flush(ctx)
}

// Delete removes key. A key that is not present is not an error; an empty
// key is.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if key == "" {
		return ErrEmptyKey
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return s.flush(ctx)
}

// Get decodes the value stored under key into out.
func (s *Store) Get(ctx context.Context, key string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if key == "" {
		return ErrEmptyKey
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := decode(value, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Iterate calls fn for every entry whose key starts with prefix, in key
// order. An empty prefix visits everything. Returning an error from fn stops
// the iteration and is passed back to the caller.
func (s *Store) Iterate(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	query := "SELECT key, value FROM kv ORDER BY key"
	args := []interface{}{}
	if prefix != "" {
		query = "SELECT key, value FROM kv WHERE instr(key, ?) = 1 ORDER BY key"
		args = append(args, prefix)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Count returns the number of entries under prefix.
func (s *Store) Count(ctx context.Context, prefix string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM kv WHERE ? = '' OR instr(key, ?) = 1", prefix, prefix,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

// Flush checkpoints the write-ahead log into the database file.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	return s.flush(ctx)
}

func (s *Store) flush(ctx context.Context) error {
	var busy, logFrames, checkpointed int
	err := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(FULL)").Scan(&busy, &logFrames, &checkpointed)
	if err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("failed to flush: checkpoint blocked")
	}
	return nil
}

// Close flushes and releases the database. It is safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	flushErr := s.flush(context.Background())
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return flushErr
}

// Shutdown lets the shutdown manager close the store.
func (s *Store) Shutdown() {
	if err := s.Close(); err != nil {
		s.logger.Error("Store", err, map[string]interface{}{"dir": s.dir})
		return
	}
	s.logger.Info("Store", "closed", map[string]interface{}{"dir": s.dir})
}
