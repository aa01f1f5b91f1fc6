// Package faultdb caches portable fault reports across machine
// invocations. A definition whose evaluation faulted once is recorded
// under a caller-chosen key and served from the cache instead of being
// re-evaluated.
//
// The cache is a SQLite file. Reports are stored in their wire encoding
// next to their kind, so the cache can be queried by kind without
// decoding.
package faultdb

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/loamvm/loam/portable"
	"github.com/loamvm/loam/wire"
)

var log = commonlog.GetLogger("loam.faultdb")

// ErrNotFound indicates no report is cached under the requested key.
var ErrNotFound = errors.New("faultdb: fault report not found")

// Store is a fault report cache over one SQLite file.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens the cache at path, creating the file and schema as needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("faultdb: opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("faultdb: setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS faults (
		key        TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		report     BLOB NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("faultdb: creating table: %w", err)
	}

	log.Infof("opened fault cache at %s", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put records a fault report under key, replacing any previous report.
func (s *Store) Put(key string, f portable.Fault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := wire.Marshal(f)
	if err != nil {
		return fmt.Errorf("faultdb: encoding report: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO faults (key, kind, report) VALUES (?, ?, ?)",
		key, string(f.Kind()), report,
	)
	if err != nil {
		return fmt.Errorf("faultdb: saving report: %w", err)
	}
	return nil
}

// Get returns the fault report cached under key, or ErrNotFound.
func (s *Store) Get(key string) (portable.Fault, error) {
	var report []byte
	err := s.db.QueryRow("SELECT report FROM faults WHERE key = ?", key).Scan(&report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("faultdb: querying report: %w", err)
	}
	f, err := wire.Unmarshal(report)
	if err != nil {
		return nil, fmt.Errorf("faultdb: report under %q: %w", key, err)
	}
	return f, nil
}

// Delete removes the report cached under key. Deleting an absent key is
// not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM faults WHERE key = ?", key); err != nil {
		return fmt.Errorf("faultdb: deleting report: %w", err)
	}
	return nil
}

// Keys returns every cached key in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM faults ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("faultdb: querying keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("faultdb: scanning key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// ByKind returns the keys of every report of the given kind, in lexical
// order.
func (s *Store) ByKind(kind portable.Kind) ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM faults WHERE kind = ? ORDER BY key", string(kind))
	if err != nil {
		return nil, fmt.Errorf("faultdb: querying by kind: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("faultdb: scanning key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
