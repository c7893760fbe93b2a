package chatkit

import (
	"context"
	"sync"

	"github.com/threadworks/chatkit/usage"
)

// fakeChatClient is a scripted inner client recording everything it sees.
type fakeChatClient struct {
	mu       sync.Mutex
	calls    [][]Message
	optsSeen []*CallOptions

	response      *Response
	err           error
	streamUpdates []StreamUpdate
	streamErr     error
}

func (f *fakeChatClient) record(messages []Message, opts *CallOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	f.optsSeen = append(f.optsSeen, opts)
}

func (f *fakeChatClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChatClient) lastCall() ([]Message, *CallOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil, nil
	}
	return f.calls[len(f.calls)-1], f.optsSeen[len(f.optsSeen)-1]
}

func (f *fakeChatClient) Respond(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error) {
	f.record(messages, opts)
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.response
	return &resp, nil
}

func (f *fakeChatClient) RespondStream(ctx context.Context, messages []Message, opts *CallOptions) (Stream, error) {
	f.record(messages, opts)
	if f.err != nil {
		return nil, f.err
	}
	return &fakeStream{updates: f.streamUpdates, failure: f.streamErr}, nil
}

// nativeFakeClient declares native conversation support.
type nativeFakeClient struct {
	fakeChatClient
}

func (f *nativeFakeClient) NativeConversations() bool { return true }

// fakeStream yields its updates, then reports failure (if any).
type fakeStream struct {
	updates []StreamUpdate
	failure error
	idx     int
	current StreamUpdate
	closed  bool
}

func (s *fakeStream) Next() bool {
	if s.idx < len(s.updates) {
		s.current = s.updates[s.idx]
		s.idx++
		return true
	}
	return false
}

func (s *fakeStream) Current() StreamUpdate { return s.current }

func (s *fakeStream) Err() error {
	if s.idx < len(s.updates) {
		return nil
	}
	return s.failure
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

// recordingStore is an in-memory store counting loads and saves, with
// injectable failures.
type recordingStore struct {
	mu      sync.Mutex
	data    map[string][]Message
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{data: make(map[string][]Message)}
}

func (s *recordingStore) Load(ctx context.Context, threadID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.data[threadID], nil
}

func (s *recordingStore) Save(ctx context.Context, threadID string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[threadID] = messages
	return nil
}

func (s *recordingStore) stored(threadID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[threadID]
}

func (s *recordingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *recordingStore) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// fakeSink captures tracked usage records synchronously.
type fakeSink struct {
	mu      sync.Mutex
	records []*usage.Record
}

func (s *fakeSink) Track(record *usage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *fakeSink) tracked() []*usage.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*usage.Record, len(s.records))
	copy(out, s.records)
	return out
}
