package chatkit

import (
	"log"
	"maps"

	"github.com/threadworks/chatkit/compaction"
)

// Option is a functional option for configuring a pipeline
type Option func(*internalConfig) error

// WithMaxMessages sets the compaction budget forwarded to the provider
func WithMaxMessages(n int) Option {
	return func(c *internalConfig) error {
		if n <= 0 {
			return NewChatError("WithMaxMessages", ErrInvalidConfig)
		}
		c.maxMessages = n
		return nil
	}
}

// WithCompactionStrategy replaces the default sliding window strategy
func WithCompactionStrategy(strategy compaction.Strategy) Option {
	return func(c *internalConfig) error {
		if strategy == nil {
			return NewChatError("WithCompactionStrategy", ErrInvalidConfig)
		}
		c.strategy = strategy
		return nil
	}
}

// WithUsageTags sets default tags attached to every usage record.
// Per-call AdditionalTags win on key collision.
func WithUsageTags(tags map[string]any) Option {
	return func(c *internalConfig) error {
		c.tags = maps.Clone(tags)
		return nil
	}
}

// WithLogger sets the logger used by the pipeline's decorators
func WithLogger(logger *log.Logger) Option {
	return func(c *internalConfig) error {
		if logger == nil {
			return NewChatError("WithLogger", ErrInvalidConfig)
		}
		c.logger = logger
		return nil
	}
}
