// Package postgres implements the storage ports on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Open creates a connection pool, pings it and applies the schema.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id UUID PRIMARY KEY, username TEXT UNIQUE NOT NULL, email TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, likes BIGINT NOT NULL DEFAULT 0, created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS forums (id UUID PRIMARY KEY, title TEXT NOT NULL, description TEXT NOT NULL DEFAULT '', author_id UUID NOT NULL, likes BIGINT NOT NULL DEFAULT 0, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS topics (id UUID PRIMARY KEY, forum_id UUID NOT NULL REFERENCES forums(id) ON DELETE CASCADE, author_id UUID NOT NULL, title TEXT NOT NULL, body TEXT NOT NULL DEFAULT '', likes BIGINT NOT NULL DEFAULT 0, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_topics_forum_id ON topics(forum_id);",
		"CREATE TABLE IF NOT EXISTS comments (id UUID PRIMARY KEY, topic_id UUID NOT NULL REFERENCES topics(id) ON DELETE CASCADE, author_id UUID NOT NULL, body TEXT NOT NULL, likes BIGINT NOT NULL DEFAULT 0, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_comments_topic_id ON comments(topic_id);",
		"CREATE TABLE IF NOT EXISTS engagements (id UUID PRIMARY KEY, kind TEXT NOT NULL CHECK(kind IN ('user','forum','topic','comment')), resource_id UUID NOT NULL, actor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE, created_at TIMESTAMPTZ NOT NULL, UNIQUE (kind, resource_id, actor_id));",
		"CREATE TABLE IF NOT EXISTS audit_events (id UUID PRIMARY KEY, action TEXT NOT NULL, actor_id UUID, address TEXT NOT NULL DEFAULT '', kind TEXT NOT NULL DEFAULT '', resource_id UUID, reason TEXT NOT NULL DEFAULT '', occurred_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_audit_events_actor ON audit_events(actor_id, occurred_at DESC);",
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Pinger adapts a pool to the readiness check.
type Pinger struct {
	Pool *pgxpool.Pool
}

func (p Pinger) Name() string { return "postgres" }

func (p Pinger) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}
