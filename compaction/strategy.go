// Package compaction reduces a conversation history to a bounded window
// before it is dispatched to a provider.
package compaction

import "github.com/threadworks/chatkit/types"

// Strategy is a pure reduction of a message history to a size budget.
// Implementations must not mutate the input slice and must be safe for
// concurrent use.
type Strategy interface {
	// Compact returns the history to send downstream. When the input
	// already fits within maxMessages it is returned unchanged.
	Compact(messages []types.Message, maxMessages int) []types.Message
}
