package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threadworks/chatkit/types"
)

// Schema creates the thread table. Apply it with Migrate or through your
// own migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS chatkit_threads (
    thread_id  TEXT PRIMARY KEY,
    messages   JSONB NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS chatkit_threads_expires_at_idx
    ON chatkit_threads (expires_at);
`

// Postgres implements Store using PostgreSQL with pgx. Each thread is one
// row; the history is stored as a JSONB array and expires_at carries the
// sliding TTL.
type Postgres struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgres creates a PostgreSQL store. ttl is the sliding expiry reset
// on every save (0 means DefaultThreadTTL).
func NewPostgres(pool *pgxpool.Pool, ttl time.Duration) *Postgres {
	if ttl <= 0 {
		ttl = DefaultThreadTTL
	}
	return &Postgres{pool: pool, ttl: ttl}
}

// Migrate applies the store schema.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply thread schema: %w", err)
	}
	return nil
}

// Load implements Store. Expired rows are treated as absent; the cleaner
// removes them later.
func (s *Postgres) Load(ctx context.Context, threadID string) ([]types.Message, error) {
	query := `
		SELECT messages
		FROM chatkit_threads
		WHERE thread_id = $1 AND expires_at > NOW()
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, threadID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load thread %s: %w", threadID, err)
	}

	var messages []types.Message
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thread %s: %w", threadID, err)
	}
	return messages, nil
}

// Save implements Store. The row is replaced wholesale; last write wins.
func (s *Postgres) Save(ctx context.Context, threadID string, messages []types.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal thread %s: %w", threadID, err)
	}

	query := `
		INSERT INTO chatkit_threads (thread_id, messages, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (thread_id) DO UPDATE
		SET messages = EXCLUDED.messages, expires_at = EXCLUDED.expires_at
	`

	_, err = s.pool.Exec(ctx, query, threadID, payload, time.Now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("failed to save thread %s: %w", threadID, err)
	}
	return nil
}

// DeleteExpired removes expired thread rows and returns the number
// deleted. The Cleaner calls this on an interval.
func (s *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chatkit_threads WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired threads: %w", err)
	}
	return tag.RowsAffected(), nil
}
