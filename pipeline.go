package chatkit

// NewPipeline composes the canonical decorator chain around cfg.Client:
//
//	caller → usage tracking → cache expansion → conversation → provider
//
// Cache expansion runs before the conversation layer so that persisted
// history and the provider both see literal text, never an unresolved
// reference. The cache and usage decorators are omitted when their config
// fields are nil; each decorator is also independently constructible for
// other stackings.
func NewPipeline(cfg Config, opts ...Option) (ChatClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ic := newInternalConfig()
	for _, opt := range opts {
		if err := opt(ic); err != nil {
			return nil, err
		}
	}

	conversation, err := NewConversationChatClient(cfg.Client, cfg.Store, &ConversationConfig{
		Strategy:    ic.strategy,
		MaxMessages: ic.maxMessages,
		Logger:      ic.logger,
	})
	if err != nil {
		return nil, err
	}
	client := ChatClient(conversation)

	if cfg.Cache != nil {
		cached, err := NewCachedChatClient(client, cfg.Cache)
		if err != nil {
			return nil, err
		}
		client = cached
	}

	if cfg.Usage != nil {
		tracking, err := NewUsageTrackingChatClient(client, cfg.Usage, cfg.Model, &UsageTrackingConfig{
			DefaultTags: ic.tags,
		})
		if err != nil {
			return nil, err
		}
		client = tracking
	}

	return client, nil
}
