package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateSchema creates the tables the API needs. Safe to call multiple
// times - uses IF NOT EXISTS.
//
// No foreign keys on user_completions: referential integrity for
// completions is enforced by the handlers (existence checks before
// insert, cascading delete before removing a challenge).
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    points INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS wellness_challenges (
    challenge_id SERIAL PRIMARY KEY,
    creator_id INTEGER NOT NULL,
    description TEXT NOT NULL,
    points INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_completions (
    completion_id SERIAL PRIMARY KEY,
    challenge_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    details TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_completions_challenge_id ON user_completions(challenge_id);
`
