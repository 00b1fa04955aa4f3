package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB,
	rev   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_rev ON kv(rev);`

// upsert assigns the next global revision in the same statement, so concurrent
// writers in other processes never hand out the same revision twice.
const upsert = `INSERT INTO kv (key, value, rev)
	VALUES (?, ?, (SELECT COALESCE(MAX(rev), 0) + 1 FROM kv))
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, rev = excluded.rev
	RETURNING rev`

// SQLiteBackend persists key/value pairs in a single SQLite file.
// Removed keys are kept as NULL tombstones so other processes can observe removals.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the store at path
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection per process keeps the per-connection pragmas in effect
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteBackend{db: db, path: path}, nil
}

// Path returns the database file location
func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) Read(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

func (b *SQLiteBackend) Write(key string, value []byte) (int64, error) {
	if value == nil {
		value = []byte{}
	}
	var rev int64
	if err := b.db.QueryRow(upsert, key, value).Scan(&rev); err != nil {
		return 0, fmt.Errorf("write %q: %w", key, err)
	}
	return rev, nil
}

func (b *SQLiteBackend) Delete(key string) (int64, error) {
	var rev int64
	if err := b.db.QueryRow(upsert, key, nil).Scan(&rev); err != nil {
		return 0, fmt.Errorf("delete %q: %w", key, err)
	}
	return rev, nil
}

func (b *SQLiteBackend) Changes(sinceRev int64) ([]Record, error) {
	rows, err := b.db.Query(`SELECT key, value, rev FROM kv WHERE rev > ? ORDER BY rev`, sinceRev)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Key, &rec.Value, &rec.Rev); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		rec.Removed = rec.Value == nil
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) Revision() (int64, error) {
	var rev int64
	if err := b.db.QueryRow(`SELECT COALESCE(MAX(rev), 0) FROM kv`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

// Close closes the underlying database connection
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
