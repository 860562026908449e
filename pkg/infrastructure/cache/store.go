package cache

import (
	"context"
	"sync"
)

// Store keeps encoded plan results by fingerprint
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Name() string
}

// MemoryStore is a bounded in-process store. When full, the oldest entry is
// evicted first.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string][]byte
	order      []string
	maxEntries int
}

// NewMemoryStore creates a memory store; maxEntries <= 0 means unbounded
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string][]byte),
		maxEntries: maxEntries,
	}
}

func (s *MemoryStore) Name() string { return "memory" }

// Get returns a copy of the stored bytes
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		if s.maxEntries > 0 && len(s.order) >= s.maxEntries {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.entries, oldest)
		}
		s.order = append(s.order, key)
	}
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
