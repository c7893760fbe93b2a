package chatkit

import (
	"fmt"
	"log"

	"github.com/threadworks/chatkit/cache"
	"github.com/threadworks/chatkit/compaction"
	"github.com/threadworks/chatkit/store"
	"github.com/threadworks/chatkit/usage"
)

// Config holds the required configuration for a pipeline.
//
// Example:
//
//	tracker := usage.NewTracker(handler, nil)
//	_ = tracker.Start(ctx)
//	client, _ := chatkit.NewPipeline(chatkit.Config{
//	    Client: provider,
//	    Store:  store.NewMemory(0, store.DefaultThreadTTL),
//	    Cache:  cache.NewMemory(),
//	    Usage:  tracker,
//	    Model:  "claude-sonnet-4-5-20250929",
//	})
type Config struct {
	// Client is the provider (or already-decorated) chat client (required).
	Client ChatClient

	// Store persists per-thread histories (required).
	Store store.Store

	// Cache enables prompt cache expansion. Optional; when nil the cache
	// decorator is omitted from the chain.
	Cache cache.Strategy

	// Usage enables usage telemetry. Optional; when nil the usage
	// decorator is omitted from the chain.
	Usage usage.Sink

	// Model is the model id stamped on usage records. Required when
	// Usage is set.
	Model string
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Client == nil {
		return fmt.Errorf("%w: Client is required", ErrInvalidConfig)
	}
	if c.Store == nil {
		return fmt.Errorf("%w: Store is required", ErrInvalidConfig)
	}
	if c.Usage != nil && c.Model == "" {
		return fmt.Errorf("%w: Model is required when Usage is set", ErrInvalidConfig)
	}
	return nil
}

// internalConfig holds the full pipeline configuration including optional
// parameters
type internalConfig struct {
	maxMessages int
	strategy    compaction.Strategy
	tags        map[string]any
	logger      *log.Logger
}

// newInternalConfig creates an internal config with defaults
func newInternalConfig() *internalConfig {
	return &internalConfig{
		maxMessages: DefaultMaxMessages,
		strategy:    compaction.NewSlidingWindow(),
		logger:      log.Default(),
	}
}
