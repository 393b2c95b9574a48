package storage

import (
	"time"
)

// Persists raw schedule bodies between the fetch and build phases, so
// a feed can be rebuilt offline from a previous fetch. One Snapshot
// per (route, date); refetching the same pair replaces the old body.
type Snapshot struct {
	Route       string
	Date        string // requested date, "2006-01-02"
	Body        []byte
	RetrievedAt time.Time
}

type Storage interface {
	// Writes a snapshot. An existing snapshot with the same route
	// and date is replaced.
	WriteSnapshot(s Snapshot) error

	// Retrieves all snapshots, ordered by (date, route).
	ListSnapshots() ([]Snapshot, error)

	Close() error
}
