package chatkit

import (
	"context"
	"maps"
)

// CallOptions is the per-call configuration recognized by the pipeline.
type CallOptions struct {
	// ThreadID addresses a persisted conversation. Empty means a new
	// thread with a server-generated id.
	ThreadID string

	// AdditionalTags is an open tag bag merged into the call's usage
	// record. Per-call tags win over decorator defaults on collision.
	AdditionalTags map[string]any
}

// Clone returns a copy safe to modify. Cloning nil options returns nil.
func (o *CallOptions) Clone() *CallOptions {
	if o == nil {
		return nil
	}
	clone := &CallOptions{ThreadID: o.ThreadID}
	if o.AdditionalTags != nil {
		clone.AdditionalTags = maps.Clone(o.AdditionalTags)
	}
	return clone
}

// Response is the result of a completed non-streaming call.
type Response struct {
	// Messages are the messages produced by the provider.
	Messages []Message

	// Usage contains token statistics when the provider reports them.
	Usage *Usage

	// ConversationID is the thread the exchange was persisted under.
	// Empty when no conversation decorator is in the chain.
	ConversationID string
}

// StreamUpdate is one element of a streamed response.
type StreamUpdate struct {
	// Role of the message being streamed, usually RoleAssistant.
	Role Role

	// ContentDelta is the incremental text carried by this update.
	ContentDelta string

	// ConversationID is set on the final synthetic update emitted after a
	// persisted stream completes.
	ConversationID string
}

// Stream is a finite, non-restartable lazy sequence of incremental
// updates. Call Next until it returns false, then check Err. Close
// releases the underlying stream; closing before exhaustion abandons the
// call.
type Stream interface {
	Next() bool
	Current() StreamUpdate
	Err() error
	Close() error
}

// ChatClient is the capability every decorator implements and wraps. The
// request/response contract is identical at every layer of the chain.
type ChatClient interface {
	// Respond issues a single-shot call.
	Respond(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error)

	// RespondStream issues a call whose response arrives incrementally.
	RespondStream(ctx context.Context, messages []Message, opts *CallOptions) (Stream, error)
}

// ConversationAware is an optional capability a client can implement to
// declare that it manages multi-turn threads natively. The conversation
// decorator checks it once at construction; a native inner client makes
// the decorator a pure passthrough.
type ConversationAware interface {
	NativeConversations() bool
}
