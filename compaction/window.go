package compaction

import "github.com/threadworks/chatkit/types"

// SlidingWindow is the default strategy: every system message is retained
// in order, and the remaining budget is filled with the most recent
// non-system messages in their original order.
type SlidingWindow struct{}

// NewSlidingWindow creates the default sliding window strategy.
func NewSlidingWindow() *SlidingWindow {
	return &SlidingWindow{}
}

// Compact implements Strategy.
func (s *SlidingWindow) Compact(messages []types.Message, maxMessages int) []types.Message {
	if len(messages) <= maxMessages {
		return messages
	}

	var system, rest []types.Message
	for _, msg := range messages {
		if msg.Role == types.RoleSystem {
			system = append(system, msg)
		} else {
			rest = append(rest, msg)
		}
	}

	keep := maxMessages - len(system)
	if keep < 0 {
		keep = 0
	}
	if keep < len(rest) {
		rest = rest[len(rest)-keep:]
	}

	out := make([]types.Message, 0, len(system)+len(rest))
	out = append(out, system...)
	out = append(out, rest...)
	return out
}
