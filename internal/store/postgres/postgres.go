package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a Postgres-backed store and ensures the schema exists.
func New(ctx context.Context, dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &pgStore{db: db}, nil
}

// NewWithDB constructs a store over an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users { return &users{db: s.db} }
func (s *pgStore) Items() store.Items { return &items{db: s.db} }
func (s *pgStore) Prefs() store.Prefs { return &prefs{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    username      TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    api_key       TEXT,
    creation_time TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    owner    TEXT NOT NULL,
    item_id  TEXT NOT NULL,
    position BIGINT NOT NULL,
    payload  JSONB NOT NULL,
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

// EnsureSchema applies the idempotent schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, api_key, creation_time) VALUES ($1,$2,$3,$4)`,
		m.Username, m.PasswordHash, m.APIKey, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	out := *m
	out.CreationTime = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, username string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx,
		`SELECT username, password_hash, api_key, creation_time FROM users WHERE username=$1`, username)
	if err := row.Scan(&out.Username, &out.PasswordHash, &out.APIKey, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (u *users) Delete(ctx context.Context, username string) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, q := range []string{
		`DELETE FROM items WHERE owner=$1`,
		`DELETE FROM prefs WHERE username=$1`,
		`DELETE FROM users WHERE username=$1`,
	} {
		if _, err := tx.ExecContext(ctx, q, username); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Items ---

type items struct{ db *sql.DB }

func (i *items) List(ctx context.Context, owner string) ([]model.ReminderItem, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT payload FROM items WHERE owner=$1 ORDER BY position ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ReminderItem
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		item, err := decodeItem(payload, owner)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (i *items) Get(ctx context.Context, owner, id string) (*model.ReminderItem, error) {
	var payload []byte
	row := i.db.QueryRowContext(ctx,
		`SELECT payload FROM items WHERE owner=$1 AND item_id=$2`, owner, id)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	item, err := decodeItem(payload, owner)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (i *items) Insert(ctx context.Context, item *model.ReminderItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = i.db.ExecContext(ctx, `
        INSERT INTO items (owner, item_id, position, payload)
        VALUES ($1, $2, (SELECT COALESCE(MIN(position), 1) - 1 FROM items WHERE owner=$1), $3)`,
		item.Owner, item.ID, payload)
	return err
}

func (i *items) Update(ctx context.Context, item *model.ReminderItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := i.db.ExecContext(ctx,
		`UPDATE items SET payload=$1 WHERE owner=$2 AND item_id=$3`,
		payload, item.Owner, item.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (i *items) Delete(ctx context.Context, owner, id string) error {
	res, err := i.db.ExecContext(ctx,
		`DELETE FROM items WHERE owner=$1 AND item_id=$2`, owner, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (i *items) ReplaceAll(ctx context.Context, owner string, list []model.ReminderItem) error {
	tx, err := i.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE owner=$1`, owner); err != nil {
		return err
	}
	for pos, item := range list {
		item.Owner = owner
		payload, err := json.Marshal(&item)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (owner, item_id, position, payload) VALUES ($1,$2,$3,$4)`,
			owner, item.ID, pos, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func decodeItem(payload []byte, owner string) (model.ReminderItem, error) {
	var item model.ReminderItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return model.ReminderItem{}, fmt.Errorf("decode item: %w", err)
	}
	item.Owner = owner
	if item.Recurrence != "" {
		item.Recurrence = model.NormalizeRecurrence(item.Recurrence)
	}
	item.DueDate = model.NormalizeDueDate(item.DueDate)
	return item, nil
}

// --- Prefs ---

type prefs struct{ db *sql.DB }

func (p *prefs) Get(ctx context.Context, username string) (*model.Preferences, error) {
	var out model.Preferences
	row := p.db.QueryRowContext(ctx,
		`SELECT username, theme, locale, font_scale FROM prefs WHERE username=$1`, username)
	if err := row.Scan(&out.Username, &out.Theme, &out.Locale, &out.FontScale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (p *prefs) Put(ctx context.Context, m *model.Preferences) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO prefs (username, theme, locale, font_scale) VALUES ($1,$2,$3,$4)
        ON CONFLICT (username) DO UPDATE SET theme=EXCLUDED.theme, locale=EXCLUDED.locale, font_scale=EXCLUDED.font_scale`,
		m.Username, m.Theme, m.Locale, m.FontScale)
	return err
}
