package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mission-control/internal/errors"
)

// SQLiteAdapter implements Adapter on top of a single SQLite kv table.
type SQLiteAdapter struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteAdapter opens (or creates) the database at dbPath.
func NewSQLiteAdapter(dbPath string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	adapter := &SQLiteAdapter{db: db}

	if err := adapter.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return adapter, nil
}

// initSchema creates the kv table.
func (s *SQLiteAdapter) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the blob stored under key, or errors.ErrDataNotFound.
func (s *SQLiteAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDataNotFound
	}
	if err != nil {
		return nil, errors.NewStorageError("get", key, err)
	}
	return blob, nil
}

// Set stores blob under key, overwriting any previous value.
func (s *SQLiteAdapter) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, blob)
	if err != nil {
		return errors.NewStorageError("set", key, err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *SQLiteAdapter) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewStorageError("ping", "", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
