package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory ledger with the same version
// semantics as the postgres store. Used in tests and local runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return copyEntry(entry), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	existing, ok := s.entries[key]

	if expectedVersion == 0 {
		if ok {
			return nil, fmt.Errorf("%w: %s already exists", ErrVersionConflict, key)
		}
		entry := &Entry{Key: key, Value: append([]byte(nil), value...), Version: 1, CreatedAt: now, UpdatedAt: now}
		s.entries[key] = entry
		return copyEntry(entry), nil
	}

	if !ok || existing.Version != expectedVersion {
		return nil, fmt.Errorf("%w: %s at version %d", ErrVersionConflict, key, expectedVersion)
	}
	existing.Value = append([]byte(nil), value...)
	existing.Version = expectedVersion + 1
	existing.UpdatedAt = now
	return copyEntry(existing), nil
}

func copyEntry(e *Entry) *Entry {
	out := *e
	out.Value = append([]byte(nil), e.Value...)
	return &out
}
