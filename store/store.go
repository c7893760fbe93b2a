// Package store provides TTL-keyed durable storage of per-thread message
// histories.
package store

import (
	"context"
	"time"

	"github.com/threadworks/chatkit/types"
)

// DefaultThreadTTL is the sliding expiry applied to a thread, reset on
// every save.
const DefaultThreadTTL = 24 * time.Hour

// Store persists ordered message histories keyed by thread id.
//
// Implementations must be safe for concurrent access across distinct
// thread ids. Concurrent writers to the same thread id resolve
// last-write-wins; there is no merge.
type Store interface {
	// Load returns the stored history for the thread, or an empty slice
	// (and nil error) when the thread is absent or expired.
	Load(ctx context.Context, threadID string) ([]types.Message, error)

	// Save replaces the thread's contents and resets its sliding TTL.
	Save(ctx context.Context, threadID string, messages []types.Message) error
}
