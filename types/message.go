// Package types defines the message model shared by the chatkit root
// package and its subpackages.
package types

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentType identifies the kind of a content block.
type ContentType string

const (
	// ContentTypeText is literal text content.
	ContentTypeText ContentType = "text"

	// ContentTypeCacheRef is an opaque reference to previously registered
	// prompt text. It carries only the cache id; the text is resolved
	// before the message reaches a provider or a store.
	ContentTypeCacheRef ContentType = "cache_ref"
)

// ContentBlock is a single content part within a message.
// Different fields are populated based on the Type.
type ContentBlock struct {
	Type ContentType `json:"type"`

	// Text content (for ContentTypeText)
	Text string `json:"text,omitempty"`

	// Cache reference (for ContentTypeCacheRef)
	CacheID string `json:"cache_id,omitempty"`

	// Source holds provider-specific payloads for content parts this
	// package does not interpret (images, documents, tool results).
	Source json.RawMessage `json:"source,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsCacheRef reports whether the block is an unresolved cache reference.
func (b ContentBlock) IsCacheRef() bool {
	return b.Type == ContentTypeCacheRef
}

// Message is one conversation turn. Messages are treated as immutable once
// created: transformations build new messages rather than mutating.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// HasCacheRefs reports whether any content block is a cache reference.
func (m Message) HasCacheRefs() bool {
	for _, b := range m.Content {
		if b.IsCacheRef() {
			return true
		}
	}
	return false
}

// Text concatenates the message's text blocks.
func (m Message) Text() string {
	var out string
	for _, b := range m.Content {
		if b.Type == ContentTypeText {
			out += b.Text
		}
	}
	return out
}

// Usage contains token statistics reported by a provider for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the total number of tokens (input + output).
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{
		Type: ContentTypeText,
		Text: text,
	}
}

// NewCacheRefBlock creates a cache reference content block.
func NewCacheRefBlock(cacheID string) ContentBlock {
	return ContentBlock{
		Type:    ContentTypeCacheRef,
		CacheID: cacheID,
	}
}

// NewMessage creates a message with the given role and content blocks.
func NewMessage(role Role, content ...ContentBlock) Message {
	return Message{Role: role, Content: content}
}

// NewSystemMessage creates a system message with text content.
func NewSystemMessage(text string) Message {
	return NewMessage(RoleSystem, NewTextBlock(text))
}

// NewUserMessage creates a user message with text content.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, NewTextBlock(text))
}

// NewAssistantMessage creates an assistant message with text content.
func NewAssistantMessage(text string) Message {
	return NewMessage(RoleAssistant, NewTextBlock(text))
}

// CloneMessages returns a copy of the message slice. The messages
// themselves are shared; they are immutable by convention.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
