package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type PSQLStorage struct {
	db *sql.DB
}

func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`DROP TABLE IF EXISTS snapshot`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("dropping snapshot table: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS snapshot (
    route TEXT NOT NULL,
    date TEXT NOT NULL,
    body BYTEA NOT NULL,
    retrieved_at TIMESTAMPTZ NOT NULL,
PRIMARY KEY (route, date)
)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &PSQLStorage{db: db}, nil
}

func (s *PSQLStorage) WriteSnapshot(snap Snapshot) error {
	_, err := s.db.Exec(`
INSERT INTO snapshot (route, date, body, retrieved_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (route, date) DO UPDATE SET
    body = EXCLUDED.body,
    retrieved_at = EXCLUDED.retrieved_at`,
		snap.Route, snap.Date, snap.Body, snap.RetrievedAt,
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (s *PSQLStorage) ListSnapshots() ([]Snapshot, error) {
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
		if err := rows.Scan(&snap.Route, &snap.Date, &snap.Body, &snap.RetrievedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *PSQLStorage) Close() error {
	return s.db.Close()
}
