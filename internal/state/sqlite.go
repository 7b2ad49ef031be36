package state

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const stateTable = "processing_state"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore keeps the identifier as a named row in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	name string
	now  func() time.Time
}

// OpenSQLite opens (or creates) the database at path. name is the row key,
// normally the configured state variable name.
func OpenSQLite(path, name string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, wrapStateErr("open", "sqlite path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrapStateErr("open", "ensure sqlite directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapStateErr("open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, wrapStateErr("open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, wrapStateErr("open", "create schema", err)
	}
	return &SQLiteStore{db: db, path: path, name: name, now: time.Now}, nil
}

// Get reads the row for the configured name.
func (s *SQLiteStore) Get(ctx context.Context) (string, bool, error) {
	query, args, err := sq.Select("value").
		From(stateTable).
		Where(sq.Eq{"name": s.name}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, wrapStateErr("get", "build query", err)
	}

	var value string
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapStateErr("get", "query state", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Set upserts the row.
func (s *SQLiteStore) Set(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return wrapStateErr("set", "identifier required", nil)
	}
	query, args, err := sq.Insert(stateTable).
		Columns("name", "value", "updated_at").
		Values(s.name, id, s.now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return wrapStateErr("set", "build query", err)
	}
	if err := s.exec(ctx, query, args...); err != nil {
		return wrapStateErr("set", "upsert state", err)
	}
	return nil
}

// Clear deletes the row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	query, args, err := sq.Delete(stateTable).Where(sq.Eq{"name": s.name}).ToSql()
	if err != nil {
		return wrapStateErr("clear", "build query", err)
	}
	if err := s.exec(ctx, query, args...); err != nil {
		return wrapStateErr("clear", "delete state", err)
	}
	return nil
}

// Describe implements Store.
func (s *SQLiteStore) Describe() string {
	return fmt.Sprintf("sqlite %s (%s)", s.path, s.name)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
