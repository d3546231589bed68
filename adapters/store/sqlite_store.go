package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/layer-3/anteroom/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the AccountStore interface using modernc.org/sqlite.
// Registration uniqueness rides on the primary key, so concurrent inserts for
// the same address race on the constraint instead of a process-local lock.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the account database at the given path
// and bootstraps the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps writers serialized (no SQLITE_BUSY under
	// concurrent registration) and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	// WAL mode for concurrent readers during registration bursts
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := "CREATE TABLE IF NOT EXISTS account(address TEXT PRIMARY KEY NOT NULL, name TEXT NOT NULL) WITHOUT ROWID;"
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("account store initialized", "path", path)

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Name returns the display name registered for the address
func (s *SQLiteStore) Name(ctx context.Context, address string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM account WHERE address = ?;",
		core.CanonicalAddress(address),
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrNoAccount
		}
		return "", fmt.Errorf("failed to query account: %w", err)
	}

	return name, nil
}

// Create registers a display name for the address. The primary key makes the
// insert atomic: under N concurrent attempts exactly one commits, the rest
// get core.ErrAccountExists.
func (s *SQLiteStore) Create(ctx context.Context, address, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO account VALUES(?, ?);",
		core.CanonicalAddress(address), name,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return core.ErrAccountExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	s.logger.Debug("registered account", "address", core.CanonicalAddress(address))
	return nil
}

// Close closes the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}
