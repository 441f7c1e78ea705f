package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id          UUID PRIMARY KEY,
        session_id  TEXT NOT NULL UNIQUE,
        name        TEXT NOT NULL,
        email       TEXT NOT NULL UNIQUE,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS meals (
        id          UUID PRIMARY KEY,
        user_id     UUID NOT NULL REFERENCES users(id),
        name        TEXT NOT NULL,
        description TEXT NOT NULL,
        date        DATE NOT NULL,
        is_diet     BOOLEAN NOT NULL,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS meals_user_date_idx ON meals (user_id, date)`,
}

// EnsureSchema creates the users and meals tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}
