package members

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the application tables. All use IF NOT EXISTS
// so Migrate can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		chat_id    BIGINT PRIMARY KEY,
		language   TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_members (
		chat_id    BIGINT NOT NULL REFERENCES chats(chat_id) ON DELETE CASCADE,
		user_id    BIGINT NOT NULL,
		first_name TEXT,
		last_name  TEXT,
		username   TEXT,
		birthday   DATE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (chat_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_polls (
		poll_id    TEXT PRIMARY KEY,
		chat_id    BIGINT NOT NULL,
		message_id INTEGER NOT NULL,
		question   TEXT NOT NULL,
		creator_id BIGINT NOT NULL,
		closes_at  TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL DEFAULT 'open',
		closed_at  TIMESTAMPTZ
	)`,
}

// Migrate applies the application schema.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
