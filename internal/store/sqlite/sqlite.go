package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/store"
)

// New opens a SQLite-backed store at path and ensures the schema exists.
func New(ctx context.Context, path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// NewWithDB wires a store over an existing connection (used by tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users { return &users{db: s.db} }
func (s *sqliteStore) Items() store.Items { return &items{db: s.db} }
func (s *sqliteStore) Prefs() store.Prefs { return &prefs{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, api_key, creation_time) VALUES (?,?,?,?)`,
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
		`SELECT username, password_hash, api_key, creation_time FROM users WHERE username = ?`, username)
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
		`DELETE FROM items WHERE owner = ?`,
		`DELETE FROM prefs WHERE username = ?`,
		`DELETE FROM users WHERE username = ?`,
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
		`SELECT payload FROM items WHERE owner = ? ORDER BY position ASC`, owner)
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
		`SELECT payload FROM items WHERE owner = ? AND item_id = ?`, owner, id)
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
	// New items take the smallest position so they surface first.
	_, err = i.db.ExecContext(ctx, `
        INSERT INTO items (owner, item_id, position, payload)
        VALUES (?, ?, (SELECT COALESCE(MIN(position), 1) - 1 FROM items WHERE owner = ?), ?)`,
		item.Owner, item.ID, item.Owner, payload)
	return err
}

func (i *items) Update(ctx context.Context, item *model.ReminderItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := i.db.ExecContext(ctx,
		`UPDATE items SET payload = ? WHERE owner = ? AND item_id = ?`,
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
		`DELETE FROM items WHERE owner = ? AND item_id = ?`, owner, id)
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE owner = ?`, owner); err != nil {
		return err
	}
	for pos, item := range list {
		item.Owner = owner
		payload, err := json.Marshal(&item)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (owner, item_id, position, payload) VALUES (?,?,?,?)`,
			owner, item.ID, pos, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// decodeItem unmarshals a stored payload and canonicalizes its recurrence
// encoding: the legacy underscore form never escapes the load boundary.
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
		`SELECT username, theme, locale, font_scale FROM prefs WHERE username = ?`, username)
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
        INSERT INTO prefs (username, theme, locale, font_scale) VALUES (?,?,?,?)
        ON CONFLICT(username) DO UPDATE SET theme=excluded.theme, locale=excluded.locale, font_scale=excluded.font_scale`,
		m.Username, m.Theme, m.Locale, m.FontScale)
	return err
}
