package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/threadworks/chatkit/types"
)

type entry struct {
	text      string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Memory is an in-process Strategy. Entries carry their own TTL and are
// dropped lazily on lookup; Sweep reclaims the rest.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates an in-memory cache strategy.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Create implements Strategy.
func (m *Memory) Create(ctx context.Context, text string, ttl time.Duration) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	id := uuid.New().String()
	e := entry{text: text, expiresAt: time.Now().Add(ttl)}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	return id, nil
}

// Delete implements Strategy.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Transform implements Strategy.
func (m *Memory) Transform(ctx context.Context, messages []types.Message) ([]types.Message, error) {
	if !hasCacheRefs(messages) {
		return messages, nil
	}

	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	return expand(messages, func(id string) (string, bool) {
		e, ok := m.entries[id]
		if !ok || e.expired(now) {
			return "", false
		}
		return e.text, true
	})
}

// Sweep removes expired entries and returns how many were dropped.
// Lookups already treat expired entries as absent; Sweep only reclaims
// memory.
func (m *Memory) Sweep() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stored entries, including not-yet-swept
// expired ones. Mainly useful for tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
