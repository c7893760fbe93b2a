package chatkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/threadworks/chatkit/cache"
)

func TestCachedExpandsBeforeDelegating(t *testing.T) {
	mem := cache.NewMemory()
	id, err := mem.Create(context.Background(), "You are a support agent.", time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inner := &fakeChatClient{
		response: &Response{Messages: []Message{NewAssistantMessage("ok")}},
	}
	client, err := NewCachedChatClient(inner, mem)
	if err != nil {
		t.Fatalf("NewCachedChatClient: %v", err)
	}

	messages := []Message{
		NewMessage(RoleSystem, NewCacheRefBlock(id)),
		NewUserMessage("hi"),
	}
	if _, err := client.Respond(context.Background(), messages, nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	seen, _ := inner.lastCall()
	if len(seen) != 2 {
		t.Fatalf("inner saw %d messages, want 2", len(seen))
	}
	if seen[0].HasCacheRefs() {
		t.Error("cache reference reached the inner client")
	}
	if seen[0].Text() != "You are a support agent." {
		t.Errorf("expanded text = %q", seen[0].Text())
	}
	if seen[1].Text() != "hi" {
		t.Errorf("non-ref message altered: %q", seen[1].Text())
	}
}

func TestCachedMissingRefFailsBeforeInnerCall(t *testing.T) {
	mem := cache.NewMemory()
	inner := &fakeChatClient{
		response: &Response{Messages: []Message{NewAssistantMessage("ok")}},
	}
	client, err := NewCachedChatClient(inner, mem)
	if err != nil {
		t.Fatalf("NewCachedChatClient: %v", err)
	}

	messages := []Message{NewMessage(RoleSystem, NewCacheRefBlock("no-such-id"))}

	_, err = client.Respond(context.Background(), messages, nil)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Respond err = %v, want ErrNotFound", err)
	}

	_, err = client.RespondStream(context.Background(), messages, nil)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("RespondStream err = %v, want ErrNotFound", err)
	}

	if inner.callCount() != 0 {
		t.Errorf("inner called %d times despite unresolved reference", inner.callCount())
	}
}

func TestCachedStreamExpansion(t *testing.T) {
	mem := cache.NewMemory()
	id, err := mem.Create(context.Background(), "CONTEXT", time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inner := &fakeChatClient{
		streamUpdates: []StreamUpdate{{Role: RoleAssistant, ContentDelta: "ok"}},
	}
	client, err := NewCachedChatClient(inner, mem)
	if err != nil {
		t.Fatalf("NewCachedChatClient: %v", err)
	}

	stream, err := client.RespondStream(context.Background(),
		[]Message{NewMessage(RoleUser, NewCacheRefBlock(id))}, nil)
	if err != nil {
		t.Fatalf("RespondStream: %v", err)
	}
	defer stream.Close()

	seen, _ := inner.lastCall()
	if seen[0].Text() != "CONTEXT" {
		t.Errorf("inner saw %q, want expanded text", seen[0].Text())
	}
}

func TestCachedCreateDeleteDelegation(t *testing.T) {
	mem := cache.NewMemory()
	inner := &fakeChatClient{}
	client, err := NewCachedChatClient(inner, mem)
	if err != nil {
		t.Fatalf("NewCachedChatClient: %v", err)
	}

	id, err := client.CreateCache(context.Background(), "text", time.Hour)
	if err != nil {
		t.Fatalf("CreateCache: %v", err)
	}
	if id == "" {
		t.Fatal("empty cache id")
	}

	if _, err := client.CreateCache(context.Background(), "", time.Hour); !errors.Is(err, cache.ErrEmptyText) {
		t.Errorf("empty text err = %v, want ErrEmptyText", err)
	}

	if err := client.DeleteCache(context.Background(), id); err != nil {
		t.Fatalf("DeleteCache: %v", err)
	}
	if err := client.DeleteCache(context.Background(), id); err != nil {
		t.Errorf("deleting a deleted id must be a no-op, got %v", err)
	}
}

func TestCachedConstructorValidation(t *testing.T) {
	if _, err := NewCachedChatClient(nil, cache.NewMemory()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil inner: err = %v", err)
	}
	if _, err := NewCachedChatClient(&fakeChatClient{}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil strategy: err = %v", err)
	}
}
