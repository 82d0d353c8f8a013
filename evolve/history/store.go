// Package history records the progress of evolution runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one reported generation of a run.
type Entry struct {
	Run        string
	Generation int
	Best       int64
	Worst      int64
	Mean       float64
	StdDev     float64
	Distance   int64
	RecordedAt time.Time
}

// Store appends entries to a SQLite database.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewStore returns a store for the database at path. Call Init before use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best INTEGER NOT NULL,
			worst INTEGER NOT NULL,
			mean REAL NOT NULL,
			stddev REAL NOT NULL,
			distance INTEGER NOT NULL,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (run, generation)
		)
	`)
	if err != nil {
		return fmt.Errorf("create generations table: %w", err)
	}
	return nil
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

// Append stores e, replacing an earlier entry for the same run and generation.
func (s *Store) Append(ctx context.Context, e Entry) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run, generation, best, worst, mean, stddev, distance, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run, generation) DO UPDATE SET
			best = excluded.best,
			worst = excluded.worst,
			mean = excluded.mean,
			stddev = excluded.stddev,
			distance = excluded.distance,
			recorded_at = excluded.recorded_at
	`, e.Run, e.Generation, e.Best, e.Worst, e.Mean, e.StdDev, e.Distance, e.RecordedAt.UnixNano())
	return err
}

// Entries returns every entry of run in generation order.
func (s *Store) Entries(ctx context.Context, run string) ([]Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT generation, best, worst, mean, stddev, distance, recorded_at
		FROM generations WHERE run = ? ORDER BY generation
	`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{Run: run}
		var recorded int64
		if err := rows.Scan(&e.Generation, &e.Best, &e.Worst, &e.Mean, &e.StdDev, &e.Distance, &recorded); err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		e.RecordedAt = time.Unix(0, recorded)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Runs lists the distinct run identifiers in the store.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT run FROM generations ORDER BY run`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
