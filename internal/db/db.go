// Package db provides PostgreSQL storage for analysis history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied by EnsureSchema; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id                     UUID PRIMARY KEY,
    job_title              TEXT NOT NULL DEFAULT '',
    overall_score          DOUBLE PRECISION NOT NULL,
    skill_match_score      DOUBLE PRECISION NOT NULL,
    experience_match_score DOUBLE PRECISION NOT NULL,
    matched_skills         TEXT[] NOT NULL DEFAULT '{}',
    missing_skills         TEXT[] NOT NULL DEFAULT '{}',
    match                  JSONB NOT NULL,
    recommendation         JSONB NOT NULL,
    vocabulary_version     TEXT NOT NULL DEFAULT '',
    processing_ms          BIGINT NOT NULL DEFAULT 0,
    created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the analyses table and its indexes if missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
