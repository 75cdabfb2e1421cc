package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS syllabi (
	course_code TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS syllabus_commits (
	commit_id TEXT PRIMARY KEY,
	course_code TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	author_name TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	snapshot BYTEA NOT NULL,
	checksum TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_syllabus_commits_course ON syllabus_commits (course_code, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	user_display_name TEXT NOT NULL DEFAULT '',
	course_code_pattern TEXT NOT NULL DEFAULT '',
	notify_by_email BOOLEAN NOT NULL DEFAULT TRUE,
	notify_by_sms BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS subscription_state (
	id SMALLINT PRIMARY KEY CHECK (id = 1),
	initialized_at TIMESTAMPTZ NOT NULL
)`,
}

// EnsureSchema creates the syllabus, commit and subscription tables when
// they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
