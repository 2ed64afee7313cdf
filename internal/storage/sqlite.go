package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/pour-decisions/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// WineStore persists the wine list. Only inputs are stored; prices are
// always recomputed.
type WineStore interface {
	SaveWine(ctx context.Context, wine model.WineRow) error
	GetWine(ctx context.Context, name string) (model.WineRow, error)
	ListWines(ctx context.Context) ([]model.WineRow, error)
	DeleteWine(ctx context.Context, name string) error
	ReplaceWines(ctx context.Context, wines []model.WineRow) error
	Close() error
}

// SQLiteStorage implements WineStore using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ WineStore = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
// Callers must run Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps :memory: databases and WAL writers consistent.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
