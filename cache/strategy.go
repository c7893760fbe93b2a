// Package cache manages opaque handles for reusable prompt text and
// expands references back into message content before dispatch.
package cache

import (
	"context"
	"time"

	"github.com/threadworks/chatkit/types"
)

// Strategy registers prompt text under opaque ids and resolves
// cache-reference content blocks back to their literal text.
type Strategy interface {
	// Create stores text under a freshly generated id with the given TTL
	// and returns the id. Empty text fails with ErrEmptyText; a
	// non-positive TTL fails with ErrInvalidTTL. Identical text submitted
	// twice yields two distinct ids.
	Create(ctx context.Context, text string, ttl time.Duration) (string, error)

	// Delete removes the entry. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// Transform replaces every cache-reference block with its literal
	// text, preserving its position among other content blocks. Messages
	// without references pass through unchanged. A reference to a
	// missing or expired id fails with ErrNotFound.
	Transform(ctx context.Context, messages []types.Message) ([]types.Message, error)
}

// hasCacheRefs reports whether any message carries an unresolved
// reference. Transform implementations use it to short-circuit.
func hasCacheRefs(messages []types.Message) bool {
	for _, msg := range messages {
		if msg.HasCacheRefs() {
			return true
		}
	}
	return false
}

// expand rebuilds the message list with every reference replaced by the
// text returned from resolve.
func expand(messages []types.Message, resolve func(id string) (string, bool)) ([]types.Message, error) {
	out := make([]types.Message, len(messages))
	for i, msg := range messages {
		if !msg.HasCacheRefs() {
			out[i] = msg
			continue
		}

		content := make([]types.ContentBlock, len(msg.Content))
		for j, block := range msg.Content {
			if !block.IsCacheRef() {
				content[j] = block
				continue
			}
			text, ok := resolve(block.CacheID)
			if !ok {
				return nil, &NotFoundError{ID: block.CacheID}
			}
			content[j] = types.NewTextBlock(text)
		}
		out[i] = types.Message{Role: msg.Role, Content: content}
	}
	return out, nil
}
