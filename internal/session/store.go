package session

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the durable local storage backing the session, a single key-value
// table in an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed creates) the storage file.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS local_storage (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored value for key, reporting whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO local_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
