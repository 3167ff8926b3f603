package docenv

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// StoredDoctree is a persisted, JSON-encoded doctree keyed by document name.
type StoredDoctree struct {
	Docname     string
	Fingerprint string
	Payload     []byte
	BuildID     string
	UpdatedAt   time.Time
}

// Store persists parsed doctrees across runs.
type Store interface {
	Get(ctx context.Context, docname string) (StoredDoctree, bool, error)
	Put(ctx context.Context, entry StoredDoctree) error
	Delete(ctx context.Context, docname string) error
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) a doctree cache database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every pooled connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS doctrees (
		docname TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		payload BLOB NOT NULL,
		build_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_doctrees_build_id ON doctrees(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored entry for docname.
func (s *SQLiteStore) Get(ctx context.Context, docname string) (StoredDoctree, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry   StoredDoctree
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT docname, fingerprint, payload, build_id, updated_at FROM doctrees WHERE docname = ?",
		docname,
	).Scan(&entry.Docname, &entry.Fingerprint, &entry.Payload, &entry.BuildID, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return StoredDoctree{}, false, nil
	}
	if err != nil {
		return StoredDoctree{}, false, fmt.Errorf("query doctree: %w", err)
	}
	entry.UpdatedAt = time.Unix(updated, 0)
	return entry, true, nil
}

// Put inserts or replaces the entry for entry.Docname.
func (s *SQLiteStore) Put(ctx context.Context, entry StoredDoctree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := entry.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctrees (docname, fingerprint, payload, build_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(docname) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			payload = excluded.payload,
			build_id = excluded.build_id,
			updated_at = excluded.updated_at`,
		entry.Docname, entry.Fingerprint, entry.Payload, entry.BuildID, updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert doctree: %w", err)
	}
	return nil
}

// Delete removes the entry for docname. Missing entries are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, docname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM doctrees WHERE docname = ?", docname); err != nil {
		return fmt.Errorf("delete doctree: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
