package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite file. Hash fields live in
// one table keyed by (key, field); expiry is tracked per key and enforced
// lazily on read.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_strings (
	k          TEXT PRIMARY KEY,
	v          TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS kv_hashes (
	k     TEXT NOT NULL,
	field TEXT NOT NULL,
	v     TEXT NOT NULL,
	PRIMARY KEY (k, field)
);
CREATE TABLE IF NOT EXISTS kv_hash_meta (
	k          TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS kv_sets (
	k      TEXT NOT NULL,
	member TEXT NOT NULL,
	PRIMARY KEY (k, member)
);
`

// OpenSQLite opens (or creates) the database file at path, applies pragmas
// and creates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	var exp int64
	err := s.db.QueryRowContext(ctx,
		`SELECT v, expires_at FROM kv_strings WHERE k = ?`, key).Scan(&v, &exp)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	if expired(exp, s.now()) {
		return "", false, nil
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_strings (k, v, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, expires_at = excluded.expires_at`,
		key, value, s.deadline(ttl))
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields := map[string]string{}

	var exp int64
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM kv_hash_meta WHERE k = ?`, key).Scan(&exp)
	if err == sql.ErrNoRows {
		return fields, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
	}
	if expired(exp, s.now()) {
		return fields, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field, v FROM kv_hashes WHERE k = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var f, v string
		if err := rows.Scan(&f, &v); err != nil {
			return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
		}
		fields[f] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
	}
	return fields, nil
}

func (s *SQLiteStore) HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kv hset %q: %w", key, err)
	}
	defer tx.Rollback()

	for f, v := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv_hashes (k, field, v) VALUES (?, ?, ?)
			 ON CONFLICT(k, field) DO UPDATE SET v = excluded.v`,
			key, f, v); err != nil {
			return fmt.Errorf("kv hset %q field %q: %w", key, f, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_hash_meta (k, expires_at) VALUES (?, ?)
		 ON CONFLICT(k) DO UPDATE SET expires_at = excluded.expires_at`,
		key, s.deadline(ttl)); err != nil {
		return fmt.Errorf("kv hset %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("kv hset %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) SAdd(ctx context.Context, key, member string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_sets (k, member) VALUES (?, ?)
		 ON CONFLICT(k, member) DO NOTHING`, key, member)
	if err != nil {
		return fmt.Errorf("kv sadd %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) SRem(ctx context.Context, key, member string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_sets WHERE k = ? AND member = ?`, key, member)
	if err != nil {
		return fmt.Errorf("kv srem %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) SMembers(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member FROM kv_sets WHERE k = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("kv smembers %q: %w", key, err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("kv smembers %q: %w", key, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv smembers %q: %w", key, err)
	}
	sort.Strings(members)
	return members, nil
}

// deadline converts a TTL into an absolute epoch-millisecond expiry.
// Zero TTL means no expiry (stored as 0).
func (s *SQLiteStore) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return s.now().Add(ttl).UnixMilli()
}

func expired(expiresAt int64, now time.Time) bool {
	return expiresAt > 0 && expiresAt <= now.UnixMilli()
}

// applyPragmas configures SQLite for a small concurrent service.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ELFPLAN_DB environment variable
// 2. $XDG_DATA_HOME/elfplan/elfplan.db
// 3. ~/.local/share/elfplan/elfplan.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ELFPLAN_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "elfplan", "elfplan.db")
	return p, ensureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return ensureDir(path)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
