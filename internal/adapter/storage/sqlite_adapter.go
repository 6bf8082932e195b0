package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteAdapter stores the encoded catalog and view in a key-value table of a
// local SQLite file.
type SQLiteAdapter struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteAdapter, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteAdapter{db: db}, nil
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}

func (s *SQLiteAdapter) LoadCatalog(ctx context.Context) ([]domain.ProductRecord, error) {
	raw, err := s.get(ctx, CatalogKey)
	if err != nil {
		return nil, err
	}
	return decodeCatalog(raw)
}

func (s *SQLiteAdapter) SaveCatalog(ctx context.Context, records []domain.ProductRecord) error {
	raw, err := encodeCatalog(records)
	if err != nil {
		return err
	}
	return s.set(ctx, CatalogKey, raw)
}

func (s *SQLiteAdapter) LoadView(ctx context.Context) (domain.ViewMode, error) {
	raw, err := s.get(ctx, ViewKey)
	if err != nil {
		return "", err
	}
	return domain.ViewOrDefault(raw), nil
}

func (s *SQLiteAdapter) SaveView(ctx context.Context, view domain.ViewMode) error {
	return s.set(ctx, ViewKey, string(view))
}

func (s *SQLiteAdapter) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteAdapter) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
