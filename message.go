package chatkit

import "github.com/threadworks/chatkit/types"

// Re-export types from the types package so callers only import chatkit.
type (
	Role         = types.Role
	Message      = types.Message
	ContentType  = types.ContentType
	ContentBlock = types.ContentBlock
	Usage        = types.Usage
)

// Re-export constants
const (
	RoleSystem    = types.RoleSystem
	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant
	RoleTool      = types.RoleTool

	ContentTypeText     = types.ContentTypeText
	ContentTypeCacheRef = types.ContentTypeCacheRef
)

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return types.NewTextBlock(text)
}

// NewCacheRefBlock creates a cache reference content block.
func NewCacheRefBlock(cacheID string) ContentBlock {
	return types.NewCacheRefBlock(cacheID)
}

// NewMessage creates a message with the given role and content blocks.
func NewMessage(role Role, content ...ContentBlock) Message {
	return types.NewMessage(role, content...)
}

// NewSystemMessage creates a system message with text content.
func NewSystemMessage(text string) Message {
	return types.NewSystemMessage(text)
}

// NewUserMessage creates a user message with text content.
func NewUserMessage(text string) Message {
	return types.NewUserMessage(text)
}

// NewAssistantMessage creates an assistant message with text content.
func NewAssistantMessage(text string) Message {
	return types.NewAssistantMessage(text)
}
