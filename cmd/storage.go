package main

import (
	"fmt"
	"path/filepath"

	"transitdata.ca/stq-gtfs/storage"
)

func openStorage() (storage.Storage, error) {
	switch storageKind {
	case "sqlite":
		path := sqlitePath
		if path == "" {
			path = filepath.Join(dataDir, "snapshots.db")
		}
		return storage.NewSQLiteStorage(storage.SQLiteConfig{Path: path})
	case "postgres":
		if postgresURL == "" {
			return nil, fmt.Errorf("--postgres-url is required for postgres storage")
		}
		return storage.NewPSQLStorage(postgresURL, false)
	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", storageKind)
	}
}
