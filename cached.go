package chatkit

import (
	"context"
	"fmt"
	"time"

	"github.com/threadworks/chatkit/cache"
)

// CachedChatClient expands cache references before delegating. It caches
// nothing itself: expansion is its only job, and it applies on both the
// single-shot and streaming paths. A reference to a missing or expired id
// fails with cache.ErrNotFound before the inner client is called.
type CachedChatClient struct {
	inner    ChatClient
	strategy cache.Strategy
}

// NewCachedChatClient creates the cache expansion decorator.
func NewCachedChatClient(inner ChatClient, strategy cache.Strategy) (*CachedChatClient, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: inner client is required", ErrInvalidConfig)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: cache strategy is required", ErrInvalidConfig)
	}
	return &CachedChatClient{inner: inner, strategy: strategy}, nil
}

// NativeConversations forwards the inner client's capability.
func (c *CachedChatClient) NativeConversations() bool {
	if aware, ok := c.inner.(ConversationAware); ok {
		return aware.NativeConversations()
	}
	return false
}

// CreateCache registers text with the underlying strategy and returns its
// opaque id.
func (c *CachedChatClient) CreateCache(ctx context.Context, text string, ttl time.Duration) (string, error) {
	return c.strategy.Create(ctx, text, ttl)
}

// DeleteCache removes a cache entry. Deleting an unknown id is a no-op.
func (c *CachedChatClient) DeleteCache(ctx context.Context, id string) error {
	return c.strategy.Delete(ctx, id)
}

// Respond implements ChatClient.
func (c *CachedChatClient) Respond(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error) {
	expanded, err := c.strategy.Transform(ctx, messages)
	if err != nil {
		return nil, err
	}
	return c.inner.Respond(ctx, expanded, opts)
}

// RespondStream implements ChatClient.
func (c *CachedChatClient) RespondStream(ctx context.Context, messages []Message, opts *CallOptions) (Stream, error) {
	expanded, err := c.strategy.Transform(ctx, messages)
	if err != nil {
		return nil, err
	}
	return c.inner.RespondStream(ctx, expanded, opts)
}
