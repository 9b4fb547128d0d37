package cache

import (
	"context"
	"sync"
	"time"
)

// memorySweepInterval bounds how often writes scan for expired entries
const memorySweepInterval = time.Minute

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process Counter and TokenDenylist used by tests and
// single instance development setups without redis.
type MemoryStore struct {
	mu        sync.Mutex
	now       func() time.Time
	entries   map[string]*memoryEntry
	lastSweep time.Time
}

// NewMemoryStore creates a new MemoryStore using now as its clock (time.Now if nil)
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now, entries: make(map[string]*memoryEntry), lastSweep: now()}
}

// sweep drops expired entries at most once per memorySweepInterval.
// Callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	if now.Sub(m.lastSweep) < memorySweepInterval {
		return
	}
	m.lastSweep = now
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}

func (m *MemoryStore) live(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil
	}
	return e
}

// Increment implements Counter
func (m *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()

	e := m.live(key)
	if e == nil {
		e = &memoryEntry{expiresAt: m.now().Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.expiresAt.Sub(m.now()), nil
}

// Revoke implements TokenDenylist
func (m *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[RevokedTokenKey(tokenID)] = &memoryEntry{count: 1, expiresAt: m.now().Add(ttl)}
	return nil
}

// IsRevoked implements TokenDenylist
func (m *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(RevokedTokenKey(tokenID)) != nil, nil
}
