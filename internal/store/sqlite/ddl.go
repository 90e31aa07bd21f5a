package sqlite

import (
	"context"
	"database/sql"
)

// Items are stored as one JSON payload per row; the flexible CustomField
// list makes a fixed column set a poor fit. Position preserves display
// order: new items take the smallest position so they stay on top.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    username      TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    api_key       TEXT,
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    owner    TEXT NOT NULL,
    item_id  TEXT NOT NULL,
    position INTEGER NOT NULL,
    payload  TEXT NOT NULL,
    PRIMARY KEY (owner, item_id)
);
CREATE INDEX IF NOT EXISTS idx_items_owner_position ON items (owner, position);

CREATE TABLE IF NOT EXISTS prefs (
    username   TEXT PRIMARY KEY,
    theme      TEXT NOT NULL,
    locale     TEXT NOT NULL,
    font_scale INTEGER NOT NULL
);
`

// EnsureSchema applies the schema; all statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
