package store

import (
	"context"

	"github.com/remindly/remindly-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Items() Items
	Prefs() Prefs
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	Delete(ctx context.Context, username string) error
}

// Items persists reminder items per owner. List returns items in display
// order (newest-first inserts stay at the top); ReplaceAll swaps an owner's
// whole collection, mirroring the wholesale-save semantics the remote sheet
// expects.
type Items interface {
	List(ctx context.Context, owner string) ([]model.ReminderItem, error)
	Get(ctx context.Context, owner, id string) (*model.ReminderItem, error)
	Insert(ctx context.Context, item *model.ReminderItem) error
	Update(ctx context.Context, item *model.ReminderItem) error
	Delete(ctx context.Context, owner, id string) error
	ReplaceAll(ctx context.Context, owner string, items []model.ReminderItem) error
}

type Prefs interface {
	Get(ctx context.Context, username string) (*model.Preferences, error)
	Put(ctx context.Context, p *model.Preferences) error
}
