package chatkit

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when a decorator or pipeline
	// configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ChatError represents an infrastructure error raised by a decorator
// (store or cache I/O). Inner client failures are never wrapped in a
// ChatError; they propagate unchanged.
type ChatError struct {
	Op       string // Operation that failed
	ThreadID string // Thread ID if applicable
	Err      error  // Underlying error
}

// Error implements the error interface
func (e *ChatError) Error() string {
	if e.ThreadID != "" {
		return fmt.Sprintf("%s (thread=%s): %v", e.Op, e.ThreadID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *ChatError) Unwrap() error {
	return e.Err
}

// NewChatError creates a new ChatError
func NewChatError(op string, err error) *ChatError {
	return &ChatError{Op: op, Err: err}
}

// NewChatErrorWithThread creates a new ChatError with a thread ID
func NewChatErrorWithThread(op, threadID string, err error) *ChatError {
	return &ChatError{Op: op, ThreadID: threadID, Err: err}
}
