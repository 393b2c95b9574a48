package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteConfig struct {
	// Path of the database file. Blank means in-memory.
	Path string
}

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	sourceName := ":memory:"
	if len(cfg) > 0 && cfg[0].Path != "" {
		sourceName = cfg[0].Path
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS snapshot (
    route TEXT NOT NULL,
    date TEXT NOT NULL,
    body BLOB NOT NULL,
    retrieved_at TIMESTAMP NOT NULL,
PRIMARY KEY (route, date)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) WriteSnapshot(snap Snapshot) error {
	_, err := s.db.Exec(`
INSERT INTO snapshot (route, date, body, retrieved_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (route, date) DO UPDATE SET
    body = excluded.body,
    retrieved_at = excluded.retrieved_at`,
		snap.Route, snap.Date, snap.Body, snap.RetrievedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListSnapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(`
SELECT route, date, body, retrieved_at
FROM snapshot
ORDER BY date, route`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		var retrievedAt string
		if err := rows.Scan(&snap.Route, &snap.Date, &snap.Body, &retrievedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.RetrievedAt, err = time.Parse(time.RFC3339, retrievedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing retrieved_at: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
