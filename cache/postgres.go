package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threadworks/chatkit/types"
)

// Schema creates the cache entry table. Apply it with Migrate or through
// your own migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS chatkit_cache_entries (
    id         TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS chatkit_cache_entries_expires_at_idx
    ON chatkit_cache_entries (expires_at);
`

// Postgres implements Strategy using PostgreSQL with pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL cache strategy.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies the cache schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply cache schema: %w", err)
	}
	return nil
}

// Create implements Strategy.
func (p *Postgres) Create(ctx context.Context, text string, ttl time.Duration) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	id := uuid.New().String()
	query := `
		INSERT INTO chatkit_cache_entries (id, content, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := p.pool.Exec(ctx, query, id, text, time.Now().Add(ttl)); err != nil {
		return "", fmt.Errorf("failed to create cache entry: %w", err)
	}
	return id, nil
}

// Delete implements Strategy.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM chatkit_cache_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", id, err)
	}
	return nil
}

// Transform implements Strategy. All referenced entries are fetched in one
// query before expansion.
func (p *Postgres) Transform(ctx context.Context, messages []types.Message) ([]types.Message, error) {
	if !hasCacheRefs(messages) {
		return messages, nil
	}

	ids := make([]string, 0, 4)
	seen := make(map[string]struct{})
	for _, msg := range messages {
		for _, block := range msg.Content {
			if !block.IsCacheRef() {
				continue
			}
			if _, ok := seen[block.CacheID]; ok {
				continue
			}
			seen[block.CacheID] = struct{}{}
			ids = append(ids, block.CacheID)
		}
	}

	query := `
		SELECT id, content
		FROM chatkit_cache_entries
		WHERE id = ANY($1) AND expires_at > NOW()
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	texts := make(map[string]string, len(ids))
	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		texts[id] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}

	return expand(messages, func(id string) (string, bool) {
		text, ok := texts[id]
		return text, ok
	})
}

// DeleteExpired removes expired cache rows and returns the number
// deleted. The store package's Cleaner calls this on an interval.
func (p *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM chatkit_cache_entries WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
