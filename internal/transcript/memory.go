package transcript

import (
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore is a thread-safe, in-memory Store backed by a simple map.
// Useful for unit tests and short-lived processes.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte // id -> JSON bytes
}

// NewMemoryStore creates a ready-to-use in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rec.ID] = raw
	return nil
}

func (m *MemoryStore) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *MemoryStore) List() ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.data))
	for _, raw := range m.data {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	sortByStart(records)
	return records, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

func sortByStart(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
}
