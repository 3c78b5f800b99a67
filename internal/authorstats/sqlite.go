package authorstats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS author_stats (
  author TEXT PRIMARY KEY,
  mean_citedness REAL NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLiteStore is a Store backed by a SQLite database file, so cached
// statistics survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary creates) the author stats database
// at path. Pass ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open author stats db: %w", err)
	}

	// SQLite does not support concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create author_stats table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, author string) (float64, bool, error) {
	var v float64
	err := s.db.QueryRowContext(ctx,
		`SELECT mean_citedness FROM author_stats WHERE author = ?`, author).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query author stats: %w", err)
	}
	return v, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, author string, meanCitedness float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO author_stats (author, mean_citedness, updated_at) VALUES (?, ?, ?)`,
		author, meanCitedness, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store author stats: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
