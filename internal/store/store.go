package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteSlot stores slots in a single SQLite table.
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteSlot, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteSlot{db: db}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) migrate() error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			version INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the entry stored under key.
func (s *SQLiteSlot) Get(ctx context.Context, key string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `SELECT value, version FROM kv WHERE key = ?`, key).Scan(&e.Value, &e.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Put writes value under key, honouring the expected version.
func (s *SQLiteSlot) Put(ctx context.Context, key, value string, expect int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	switch {
	case expect == AnyVersion:
		var version int64
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO kv (key, value, version, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = kv.version + 1, updated_at = excluded.updated_at
			 RETURNING version`,
			key, value, now).Scan(&version)
		if err != nil {
			return 0, err
		}
		return version, nil
	case expect == 0:
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, version, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(key) DO NOTHING`,
			key, value, now)
		if err != nil {
			return 0, err
		}
		return 1, checkAffected(res)
	default:
		res, err := s.db.ExecContext(ctx,
			`UPDATE kv SET value = ?, version = version + 1, updated_at = ? WHERE key = ? AND version = ?`,
			value, now, key, expect)
		if err != nil {
			return 0, err
		}
		return expect + 1, checkAffected(res)
	}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}
