package chatkit

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/threadworks/chatkit/usage"
)

// UsageTrackingConfig holds optional settings for the usage decorator. A
// nil config uses the defaults.
type UsageTrackingConfig struct {
	// DefaultTags are attached to every record. Per-call AdditionalTags
	// win on key collision.
	DefaultTags map[string]any
}

// UsageTrackingChatClient extracts usage metrics from completed calls and
// submits them to a sink. Submission never blocks and never fails the
// caller's request. Streaming calls produce no record: providers do not
// expose usage incrementally.
type UsageTrackingChatClient struct {
	inner       ChatClient
	sink        usage.Sink
	modelID     string
	defaultTags map[string]any
}

// NewUsageTrackingChatClient creates the usage decorator. The model id is
// captured once here and stamped on every record.
func NewUsageTrackingChatClient(inner ChatClient, sink usage.Sink, modelID string, config *UsageTrackingConfig) (*UsageTrackingChatClient, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: inner client is required", ErrInvalidConfig)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: usage sink is required", ErrInvalidConfig)
	}
	if modelID == "" {
		return nil, fmt.Errorf("%w: model id is required", ErrInvalidConfig)
	}
	if config == nil {
		config = &UsageTrackingConfig{}
	}

	return &UsageTrackingChatClient{
		inner:       inner,
		sink:        sink,
		modelID:     modelID,
		defaultTags: config.DefaultTags,
	}, nil
}

// NativeConversations forwards the inner client's capability.
func (c *UsageTrackingChatClient) NativeConversations() bool {
	if aware, ok := c.inner.(ConversationAware); ok {
		return aware.NativeConversations()
	}
	return false
}

// Respond implements ChatClient.
func (c *UsageTrackingChatClient) Respond(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error) {
	resp, err := c.inner.Respond(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	if resp.Usage != nil {
		record := &usage.Record{
			ModelID:      c.modelID,
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			Timestamp:    time.Now(),
			ThreadID:     threadIDFor(opts, resp),
			Tags:         c.mergeTags(opts),
		}
		// Enqueue-or-drop; the sink logs drops itself.
		_ = c.sink.Track(record)
	}

	return resp, nil
}

// RespondStream implements ChatClient. Pure passthrough.
func (c *UsageTrackingChatClient) RespondStream(ctx context.Context, messages []Message, opts *CallOptions) (Stream, error) {
	return c.inner.RespondStream(ctx, messages, opts)
}

// threadIDFor prefers the caller-supplied thread id, falling back to the
// id resolved by a conversation decorator deeper in the chain.
func threadIDFor(opts *CallOptions, resp *Response) string {
	if opts != nil && opts.ThreadID != "" {
		return opts.ThreadID
	}
	return resp.ConversationID
}

// mergeTags overlays the per-call tags onto the decorator defaults.
func (c *UsageTrackingChatClient) mergeTags(opts *CallOptions) map[string]any {
	var extra map[string]any
	if opts != nil {
		extra = opts.AdditionalTags
	}
	if len(c.defaultTags) == 0 && len(extra) == 0 {
		return nil
	}

	tags := make(map[string]any, len(c.defaultTags)+len(extra))
	maps.Copy(tags, c.defaultTags)
	maps.Copy(tags, extra)
	return tags
}
