package progress

import (
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS checklist (
	key        TEXT PRIMARY KEY,
	count      INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME
)`

const upsert = `INSERT INTO checklist (key, count, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET count = excluded.count, updated_at = excluded.updated_at`

// SQLiteStore is a Store persisted in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the checklist database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "open progress db %s", path)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "create checklist table in %s", path)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (int, error) {
	return get(s.db, key)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func get(q queryer, key string) (int, error) {
	var count int
	err := q.QueryRow(`SELECT count FROM checklist WHERE key = ?`, key).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrapf(err, "read checklist key %q", key)
	}
	return count, nil
}

func (s *SQLiteStore) Set(key string, count int) error {
	if count < 0 {
		return eris.Errorf("count for %q must not be negative (got %d)", key, count)
	}
	if _, err := s.db.Exec(upsert, key, count, time.Now().UTC()); err != nil {
		return eris.Wrapf(err, "write checklist key %q", key)
	}
	return nil
}

func (s *SQLiteStore) Advance(key string, target int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, eris.Wrap(err, "begin checklist transaction")
	}
	defer tx.Rollback()

	current, err := get(tx, key)
	if err != nil {
		return 0, err
	}

	n := next(current, target)
	if _, err := tx.Exec(upsert, key, n, time.Now().UTC()); err != nil {
		return 0, eris.Wrapf(err, "write checklist key %q", key)
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "commit checklist transaction")
	}
	return n, nil
}

func (s *SQLiteStore) All() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT key, count FROM checklist`)
	if err != nil {
		return nil, eris.Wrap(err, "list checklist")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, eris.Wrap(err, "scan checklist row")
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "list checklist")
	}
	return out, nil
}

func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM checklist`); err != nil {
		return eris.Wrap(err, "reset checklist")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
