package store

import (
	"context"
	"sync"

	"github.com/i474232898/skypulse/internal/weather"
)

// SnapshotStore is a concurrency-safe in-memory store of the latest snapshot
// per location. Saving replaces the previous snapshot wholesale.
type SnapshotStore struct {
	mu sync.RWMutex

	// key: location key, value: latest snapshot
	data map[string]weather.Snapshot
}

// NewSnapshotStore creates an empty SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]weather.Snapshot),
	}
}

// Save stores snapshot as the latest for its location.
func (s *SnapshotStore) Save(snapshot weather.Snapshot) {
	key := snapshot.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = snapshot
}

// Latest returns the most recent snapshot for a location.
func (s *SnapshotStore) Latest(loc weather.Location) (weather.Snapshot, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[key]
	if !ok {
		return weather.Snapshot{}, weather.ErrNoSnapshot
	}
	return snap, nil
}

// MemoryKV is a process-local KV. Values do not survive a restart.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
