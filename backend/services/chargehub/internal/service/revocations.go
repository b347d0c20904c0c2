package service

import (
	"context"
	"sync"
	"time"
)

// MemoryRevocations keeps signed-out session ids in process. Used when no redis
// is configured; entries vanish once the token would have expired anyway.
type MemoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations returns an empty set.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks sessionID revoked until the given time.
func (m *MemoryRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	m.entries[sessionID] = until
	return nil
}

// IsRevoked reports whether sessionID was signed out.
func (m *MemoryRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.entries[sessionID]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.entries, sessionID)
		return false, nil
	}
	return true, nil
}

// caller holds m.mu
func (m *MemoryRevocations) prune() {
	now := m.now()
	for id, until := range m.entries {
		if now.After(until) {
			delete(m.entries, id)
		}
	}
}
