package chatkit

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/threadworks/chatkit/compaction"
	"github.com/threadworks/chatkit/store"
)

// ConversationConfig holds optional settings for the conversation
// decorator. A nil config uses the defaults.
type ConversationConfig struct {
	// Strategy reduces the history before dispatch.
	// Default: compaction.NewSlidingWindow().
	Strategy compaction.Strategy

	// MaxMessages is the compaction budget. Default: DefaultMaxMessages.
	MaxMessages int

	// Logger receives diagnostics. Default: log.Default().
	Logger *log.Logger
}

// ConversationChatClient injects and persists per-thread history around an
// inner client. The caller's request/response contract is unchanged: the
// only visible additions are the resolved ConversationID on responses and
// the final synthetic update on streams.
//
// Concurrent calls on the same thread id are not serialized; the store
// resolves them last-write-wins. Callers needing strict per-thread order
// must serialize themselves.
type ConversationChatClient struct {
	inner       ChatClient
	store       store.Store
	strategy    compaction.Strategy
	maxMessages int
	native      bool
	logger      *log.Logger
}

// NewConversationChatClient creates the conversation decorator. Whether
// the inner client manages threads natively is detected here, once; a
// native inner client turns every call into a passthrough with no store
// I/O.
func NewConversationChatClient(inner ChatClient, st store.Store, config *ConversationConfig) (*ConversationChatClient, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: inner client is required", ErrInvalidConfig)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if config == nil {
		config = &ConversationConfig{}
	}

	c := &ConversationChatClient{
		inner:       inner,
		store:       st,
		strategy:    config.Strategy,
		maxMessages: config.MaxMessages,
		logger:      config.Logger,
	}
	if c.strategy == nil {
		c.strategy = compaction.NewSlidingWindow()
	}
	if c.maxMessages <= 0 {
		c.maxMessages = DefaultMaxMessages
	}
	if c.logger == nil {
		c.logger = log.Default()
	}

	if aware, ok := inner.(ConversationAware); ok {
		c.native = aware.NativeConversations()
	}
	if c.native {
		c.logger.Printf(logPrefix + "inner client manages conversations natively, persistence disabled")
	}

	return c, nil
}

// NativeConversations reports the inner client's capability so the
// decorator composes transparently inside other decorators.
func (c *ConversationChatClient) NativeConversations() bool {
	return c.native
}

// Respond implements ChatClient.
func (c *ConversationChatClient) Respond(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error) {
	if c.native {
		return c.inner.Respond(ctx, messages, opts)
	}

	threadID, compacted, forwarded, err := c.prepare(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.inner.Respond(ctx, compacted, forwarded)
	if err != nil {
		// Propagate unchanged; nothing is persisted.
		return nil, err
	}

	history := make([]Message, 0, len(compacted)+len(resp.Messages))
	history = append(history, compacted...)
	history = append(history, resp.Messages...)

	// The provider has answered: persisting is a commit point that caller
	// cancellation must not unwind.
	if err := c.store.Save(context.WithoutCancel(ctx), threadID, history); err != nil {
		return nil, NewChatErrorWithThread("conversation.save", threadID, err)
	}

	resp.ConversationID = threadID
	return resp, nil
}

// RespondStream implements ChatClient. Updates are forwarded unchanged
// while the assistant text accumulates; a clean completion persists the
// exchange and then emits one final synthetic update carrying the thread
// id. A fault or early close persists nothing.
func (c *ConversationChatClient) RespondStream(ctx context.Context, messages []Message, opts *CallOptions) (Stream, error) {
	if c.native {
		return c.inner.RespondStream(ctx, messages, opts)
	}

	threadID, compacted, forwarded, err := c.prepare(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	inner, err := c.inner.RespondStream(ctx, compacted, forwarded)
	if err != nil {
		return nil, err
	}

	return &conversationStream{
		inner:    inner,
		client:   c,
		ctx:      ctx,
		threadID: threadID,
		history:  compacted,
	}, nil
}

// prepare resolves the thread id, merges stored history with the incoming
// messages, compacts, and strips the thread id from the forwarded options.
func (c *ConversationChatClient) prepare(ctx context.Context, messages []Message, opts *CallOptions) (string, []Message, *CallOptions, error) {
	var threadID string
	if opts != nil {
		threadID = opts.ThreadID
	}
	if threadID == "" {
		threadID = uuid.New().String()
	}

	// An id that was never saved (or has expired) loads as an empty
	// history and behaves as a new thread, not an error.
	stored, err := c.store.Load(ctx, threadID)
	if err != nil {
		return "", nil, nil, NewChatErrorWithThread("conversation.load", threadID, err)
	}

	combined := make([]Message, 0, len(stored)+len(messages))
	combined = append(combined, stored...)
	combined = append(combined, messages...)

	compacted := c.strategy.Compact(combined, c.maxMessages)

	forwarded := opts.Clone()
	if forwarded != nil {
		forwarded.ThreadID = ""
	}

	return threadID, compacted, forwarded, nil
}

// conversationStream wraps the inner stream, accumulating assistant text
// and persisting on clean completion before emitting the final update.
type conversationStream struct {
	inner    Stream
	client   *ConversationChatClient
	ctx      context.Context
	threadID string
	history  []Message

	text    strings.Builder
	current StreamUpdate
	err     error
	flushed bool
	done    bool
}

func (s *conversationStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	if s.inner.Next() {
		s.current = s.inner.Current()
		s.text.WriteString(s.current.ContentDelta)
		return true
	}

	if err := s.inner.Err(); err != nil {
		// Mid-stream fault: nothing is persisted.
		s.err = err
		s.done = true
		return false
	}

	if !s.flushed {
		s.flushed = true
		if err := s.persist(); err != nil {
			s.err = err
			s.done = true
			return false
		}
		s.current = StreamUpdate{Role: RoleAssistant, ConversationID: s.threadID}
		return true
	}

	s.done = true
	return false
}

func (s *conversationStream) Current() StreamUpdate {
	return s.current
}

func (s *conversationStream) Err() error {
	return s.err
}

func (s *conversationStream) Close() error {
	return s.inner.Close()
}

// persist saves the compacted request plus the accumulated assistant
// message. The stream has completed, so this is a commit point detached
// from caller cancellation.
func (s *conversationStream) persist() error {
	assistant := NewAssistantMessage(s.text.String())

	history := make([]Message, 0, len(s.history)+1)
	history = append(history, s.history...)
	history = append(history, assistant)

	if err := s.client.store.Save(context.WithoutCancel(s.ctx), s.threadID, history); err != nil {
		return NewChatErrorWithThread("conversation.save", s.threadID, err)
	}
	return nil
}
