package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/cfhelper/internal/client/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose хранит dialect и FS в глобальном состоянии
var migrateMu sync.Mutex

// Storage represents SQLite implementation of storage.Storage
type Storage struct {
	mu sync.RWMutex
	db *sql.DB
}

// Проверка что Storage реализует интерфейс
var (
	_ storage.Storage     = (*Storage)(nil)
	_ storage.Timestamped = (*Storage)(nil)
)

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Один писатель: клиентское приложение не нуждается в пуле
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Storage{db: db}

	// Запускаем миграции
	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection. Repeated calls are no-ops.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations(ctx context.Context) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Get returns the raw value stored under key
func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownKey, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

// Put stores value under key, replacing any previous value
func (s *Storage) Put(ctx context.Context, key storage.Key, value []byte) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %s", storage.ErrUnknownKey, key)
	}
	if value == nil {
		value = []byte{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, string(key), value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Missing key is not an error.
func (s *Storage) Delete(ctx context.Context, key storage.Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %s", storage.ErrUnknownKey, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// UpdatedAt возвращает время последней записи ключа
func (s *Storage) UpdatedAt(ctx context.Context, key storage.Key) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM preferences WHERE key = ?`, string(key)).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, storage.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get %s timestamp: %w", key, err)
	}

	return updatedAt, nil
}
