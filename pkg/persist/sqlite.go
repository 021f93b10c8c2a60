package persist

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores snapshots in a SQLite table keyed by snapshot name.
// One database can hold the snapshots of many stores.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database at dsn and ensures the
// snapshots table exists. Use ":memory:" for an in-process database.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS statekit_snapshots (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load(key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.QueryRow(
		`SELECT data FROM statekit_snapshots WHERE name = ?`, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *SQLiteBackend) Save(key string, data []byte) error {
	_, err := b.db.Exec(
		`INSERT INTO statekit_snapshots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// UpdatedAt returns when the snapshot for key was last written.
func (b *SQLiteBackend) UpdatedAt(key string) (time.Time, bool, error) {
	var stamp string
	err := b.db.QueryRow(
		`SELECT updated_at FROM statekit_snapshots WHERE name = ?`, key,
	).Scan(&stamp)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Close closes the underlying database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
