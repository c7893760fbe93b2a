// Package chatkit augments any conversational AI client with multi-turn
// persistence, prompt cache expansion, and asynchronous usage telemetry.
//
// The package is built around one capability, ChatClient, and three
// decorators that each wrap one inner instance of it:
//
//   - ConversationChatClient injects and persists per-thread history,
//     compacting it to a bounded window before dispatch.
//   - CachedChatClient expands opaque cache references into literal
//     prompt text before anything reaches a provider or a store.
//   - UsageTrackingChatClient extracts token usage from completed calls
//     and hands records to a non-blocking tracker.
//
// Because every decorator implements ChatClient and forwards to one owned
// inner instance, subsets and orders are freely composable. NewPipeline
// builds the canonical chain:
//
//	caller → usage tracking → cache expansion → conversation → provider
//
// Cache expansion sits outside the conversation layer so references are
// resolved before anything is persisted or dispatched.
//
// # Quick Start
//
//	tracker := usage.NewTracker(myHandler, nil)
//	_ = tracker.Start(ctx)
//	defer tracker.Stop(ctx)
//
//	client, err := chatkit.NewPipeline(chatkit.Config{
//	    Client: provider,
//	    Store:  store.NewMemory(0, store.DefaultThreadTTL),
//	    Cache:  cache.NewMemory(),
//	    Usage:  tracker,
//	    Model:  "claude-sonnet-4-5-20250929",
//	})
//
//	resp, err := client.Respond(ctx,
//	    []chatkit.Message{chatkit.NewUserMessage("hi")},
//	    &chatkit.CallOptions{ThreadID: "support-42"},
//	)
//
// # Conversations
//
// A call with an empty ThreadID starts a new thread under a generated id,
// returned as Response.ConversationID. Histories expire on a sliding TTL
// (24h by default) reset by every save. Streaming calls forward updates
// unchanged and emit one final synthetic update carrying the thread id
// once the exchange has been persisted.
//
// # Prompt caching
//
// Register reusable prompt text once and reference it by id:
//
//	id, _ := cacheStrategy.Create(ctx, systemPrompt, time.Hour)
//	msg := chatkit.NewMessage(chatkit.RoleSystem, chatkit.NewCacheRefBlock(id))
//
// References are resolved strictly before persistence or dispatch; a
// missing or expired id fails the call with cache.ErrNotFound before the
// provider is contacted.
//
// # Usage telemetry
//
// The tracker never blocks the request path: records are enqueued into a
// bounded queue and drained by one background goroutine. On overflow the
// oldest queued record is dropped with a warning. Shutdown drains every
// queued record before reporting stopped.
package chatkit
