package db

import (
	"context"
	"database/sql"
)

const issuanceMigration = `
CREATE TABLE IF NOT EXISTS token_issuances (
    id uuid PRIMARY KEY,
    request_id text NOT NULL DEFAULT '',
    email text NOT NULL,
    role text NOT NULL,
    outcome text NOT NULL,
    detail text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS token_issuances_email_idx
ON token_issuances (email);

CREATE INDEX IF NOT EXISTS token_issuances_created_at_idx
ON token_issuances (created_at);
`

func RunIssuanceMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, issuanceMigration)
	return err
}
