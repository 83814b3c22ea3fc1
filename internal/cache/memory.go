package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is a process-local Store used by tests and by deployments that
// run without Redis. Expiry is checked lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

// Scan matches keys against a glob pattern, mirroring the Redis MATCH syntax
// closely enough for admin listings ("*", "card:*").
func (m *MemoryStore) Scan(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key, entry := range m.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		if ok, err := path.Match(pattern, key); err == nil && ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
