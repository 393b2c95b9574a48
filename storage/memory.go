package storage

import (
	"sort"
)

// In-memory snapshot store, for tests and one-shot fetch+build runs.
type MemoryStorage struct {
	snapshots map[[2]string]Snapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snapshots: map[[2]string]Snapshot{},
	}
}

func (m *MemoryStorage) WriteSnapshot(s Snapshot) error {
	m.snapshots[[2]string{s.Date, s.Route}] = s
	return nil
}

func (m *MemoryStorage) ListSnapshots() ([]Snapshot, error) {
	keys := make([][2]string, 0, len(m.snapshots))
	for k := range m.snapshots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] == keys[j][0] {
			return keys[i][1] < keys[j][1]
		}
		return keys[i][0] < keys[j][0]
	})

	snapshots := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		snapshots = append(snapshots, m.snapshots[k])
	}
	return snapshots, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
