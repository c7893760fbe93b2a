package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/threadworks/chatkit/cache"
	"github.com/threadworks/chatkit/internal/testutil"
	"github.com/threadworks/chatkit/types"
)

func setupPostgres(t *testing.T) *cache.Postgres {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Close)

	ctx := context.Background()
	pg := cache.NewPostgres(db.Pool)
	if err := pg.Migrate(ctx); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if err := db.CleanTables(ctx); err != nil {
		t.Fatalf("CleanTables returned error: %v", err)
	}

	return pg
}

func TestPostgresCreateTransformDelete(t *testing.T) {
	pg := setupPostgres(t)
	ctx := context.Background()

	id, err := pg.Create(ctx, "SYSTEM_PROMPT_X", time.Hour)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	messages := []types.Message{types.NewMessage(types.RoleSystem, types.NewCacheRefBlock(id))}
	got, err := pg.Transform(ctx, messages)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if got[0].Text() != "SYSTEM_PROMPT_X" {
		t.Errorf("expected SYSTEM_PROMPT_X, got %q", got[0].Text())
	}

	if err := pg.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, err = pg.Transform(ctx, messages)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresCreateEmptyTextFails(t *testing.T) {
	pg := setupPostgres(t)

	_, err := pg.Create(context.Background(), "", time.Hour)
	if !errors.Is(err, cache.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestPostgresCreateNonPositiveTTLFails(t *testing.T) {
	pg := setupPostgres(t)
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		if _, err := pg.Create(ctx, "text", ttl); !errors.Is(err, cache.ErrInvalidTTL) {
			t.Errorf("Create with ttl %v: expected ErrInvalidTTL, got %v", ttl, err)
		}
	}
}

func TestPostgresExpiredEntryNotFound(t *testing.T) {
	pg := setupPostgres(t)
	ctx := context.Background()

	id, err := pg.Create(ctx, "short lived", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	messages := []types.Message{types.NewMessage(types.RoleUser, types.NewCacheRefBlock(id))}
	_, err = pg.Transform(ctx, messages)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired entry, got %v", err)
	}

	count, err := pg.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 expired row removed, got %d", count)
	}
}
