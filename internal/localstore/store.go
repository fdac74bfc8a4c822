// Package localstore is a small persistent key/value store backed by sqlite.
// It plays the role browser local storage plays for a web client: string
// keys, string values, read and written wholesale.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store holds separate read and write handles to one database file. The write
// handle is limited to a single connection so writers queue instead of
// failing with SQLITE_BUSY.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
}

// UpdateFunc receives the current value (ok is false when the key is absent)
// and returns the value to store.
type UpdateFunc func(current string, ok bool) (string, error)

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("localstore: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDSN, err := fileDSN(path, "")
	if err != nil {
		return nil, err
	}
	writeDB, err := sql.Open("sqlite", writeDSN)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	s := &Store{writeDB: writeDB, now: time.Now}
	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}

	// The read-only handle is opened after the schema exists.
	readDSN, err := fileDSN(path, "mode=ro")
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	readDB, err := sql.Open("sqlite", readDSN)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	s.readDB = readDB
	return s, nil
}

// fileDSN renders path as an sqlite file: URI so characters such as ? and #
// in directory names are escaped instead of read as URI syntax.
func fileDSN(path, query string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving database path: %w", err)
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed // windows drive letters
	}
	u := url.URL{Scheme: "file", Path: slashed, RawQuery: query}
	return u.String(), nil
}

func (s *Store) init() error {
	if _, err := s.writeDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS storage (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close releases both handles.
func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.readDB.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := setExec(ctx, s.writeDB, key, value, s.now()); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.writeDB.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.readDB.QueryContext(ctx, `SELECT key FROM storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Update runs a read-modify-write of key inside one write transaction. When
// fn returns an error nothing is written.
func (s *Store) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update of %q: %w", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	ok := true
	err = tx.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ok = false
	case err != nil:
		return fmt.Errorf("reading %q: %w", key, err)
	}

	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if err := setExec(ctx, tx, key, next, s.now()); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setExec(ctx context.Context, db execer, key, value string, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now.UTC())
	return err
}
