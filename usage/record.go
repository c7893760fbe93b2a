// Package usage provides asynchronous usage telemetry: records built from
// completed calls, a handler capability, and a non-blocking tracker.
package usage

import (
	"context"
	"time"
)

// Record is a structured log of token consumption for one completed call.
// It is created once per completed non-streaming call and consumed exactly
// once.
type Record struct {
	// ModelID identifies the model the call was made against.
	ModelID string `json:"model_id"`

	// InputTokens is the number of prompt tokens consumed.
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the number of completion tokens produced.
	OutputTokens int `json:"output_tokens"`

	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`

	// ThreadID is the call's thread id, when the call was part of a
	// conversation.
	ThreadID string `json:"thread_id,omitempty"`

	// Tags is an open bag of dimensions attached to the record.
	Tags map[string]any `json:"tags,omitempty"`
}

// Handler consumes finalized usage records. A handler failure is contained
// by the tracker and never affects other records.
type Handler interface {
	Handle(ctx context.Context, record *Record) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, record *Record) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, record *Record) error {
	return f(ctx, record)
}

// Sink accepts records for asynchronous delivery. Tracker implements it;
// decorators depend on this interface so tests can substitute their own.
type Sink interface {
	Track(record *Record) error
}
