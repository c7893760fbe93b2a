package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/threadworks/chatkit/types"
)

// Memory is an in-process Store backed by an expirable LRU. Every save
// re-adds the entry, which resets its expiry; loads do not extend the TTL.
type Memory struct {
	lru *expirable.LRU[string, []types.Message]
}

// NewMemory creates an in-memory store. maxThreads bounds the number of
// retained threads (0 means unbounded); ttl is the sliding expiry applied
// on every save (0 means DefaultThreadTTL).
func NewMemory(maxThreads int, ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultThreadTTL
	}
	return &Memory{
		lru: expirable.NewLRU[string, []types.Message](maxThreads, nil, ttl),
	}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, threadID string) ([]types.Message, error) {
	messages, ok := m.lru.Get(threadID)
	if !ok {
		return nil, nil
	}
	return types.CloneMessages(messages), nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, threadID string, messages []types.Message) error {
	m.lru.Add(threadID, types.CloneMessages(messages))
	return nil
}

// Len returns the number of live threads. Mainly useful for tests.
func (m *Memory) Len() int {
	return m.lru.Len()
}
