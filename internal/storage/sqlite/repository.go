package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomodoro_tui/internal/storage"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "pomodoro_tui.db"

// Repository stores blobs in a single key/value table.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Blob = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init(ctx context.Context) error {
	kvQuery := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)
	`
	if _, err := r.db.ExecContext(ctx, kvQuery); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) Put(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at`,
		key, value, r.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
