package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/threadworks/chatkit/types"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, time.Hour)

	messages := []types.Message{
		types.NewUserMessage("hi"),
		types.NewAssistantMessage("hello"),
	}

	if err := m.Save(ctx, "t1", messages); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := m.Load(ctx, "t1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text() != "hi" || got[1].Text() != "hello" {
		t.Errorf("round trip mismatch: [%q %q]", got[0].Text(), got[1].Text())
	}
}

func TestMemoryLoadUnknownThread(t *testing.T) {
	m := NewMemory(0, time.Hour)

	got, err := m.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d messages", len(got))
	}
}

func TestMemorySaveReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, time.Hour)

	if err := m.Save(ctx, "t1", []types.Message{types.NewUserMessage("first")}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := m.Save(ctx, "t1", []types.Message{types.NewUserMessage("second")}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := m.Load(ctx, "t1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 1 || got[0].Text() != "second" {
		t.Errorf("expected replaced history [second], got %d messages", len(got))
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 20*time.Millisecond)

	if err := m.Save(ctx, "t1", []types.Message{types.NewUserMessage("hi")}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	got, err := m.Load(ctx, "t1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected expired thread to load empty, got %d messages", len(got))
	}
}

func TestMemoryConcurrentDistinctThreads(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			threadID := fmt.Sprintf("thread-%d", n)
			msg := types.NewUserMessage(threadID)
			if err := m.Save(ctx, threadID, []types.Message{msg}); err != nil {
				t.Errorf("Save(%s) returned error: %v", threadID, err)
				return
			}
			got, err := m.Load(ctx, threadID)
			if err != nil {
				t.Errorf("Load(%s) returned error: %v", threadID, err)
				return
			}
			if len(got) != 1 || got[0].Text() != threadID {
				t.Errorf("thread %s: unexpected history", threadID)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, time.Hour)

	if err := m.Save(ctx, "t1", []types.Message{types.NewUserMessage("hi")}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	first, _ := m.Load(ctx, "t1")
	first[0] = types.NewUserMessage("mutated")

	second, _ := m.Load(ctx, "t1")
	if second[0].Text() != "hi" {
		t.Errorf("stored history was mutated through a loaded copy")
	}
}
