package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/store"
)

// Run exercises the Store contract against a driver. Every driver
// implementation runs this same suite from its own test package.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("ItemsCRUD", func(t *testing.T) { testItemsCRUD(t, newStore(t)) })
	t.Run("ItemsOrdering", func(t *testing.T) { testItemsOrdering(t, newStore(t)) })
	t.Run("ItemsReplaceAll", func(t *testing.T) { testItemsReplaceAll(t, newStore(t)) })
	t.Run("LegacyRecurrence", func(t *testing.T) { testLegacyRecurrence(t, newStore(t)) })
	t.Run("Prefs", func(t *testing.T) { testPrefs(t, newStore(t)) })
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Users().Create(ctx, &model.User{
		Username:     "somchai",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	})
	require.NoError(t, err)
	assert.False(t, created.CreationTime.IsZero())

	got, err := s.Users().Get(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "somchai", got.Username)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)
	assert.Nil(t, got.APIKey)

	_, err = s.Users().Get(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Users().Delete(ctx, "somchai"))
	_, err = s.Users().Get(ctx, "somchai")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testItemsCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "somchai"

	item := makeItem(owner, "จ่ายค่าไฟ")
	require.NoError(t, s.Items().Insert(ctx, item))

	got, err := s.Items().Get(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "จ่ายค่าไฟ", got.Title)
	assert.Equal(t, owner, got.Owner)

	got.IsCompleted = true
	require.NoError(t, s.Items().Update(ctx, got))

	again, err := s.Items().Get(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.True(t, again.IsCompleted)

	assert.ErrorIs(t, s.Items().Update(ctx, makeItem(owner, "ghost")), model.ErrNotFound)

	require.NoError(t, s.Items().Delete(ctx, owner, item.ID))
	_, err = s.Items().Get(ctx, owner, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Items().Delete(ctx, owner, item.ID), model.ErrNotFound)
}

func testItemsOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "somchai"

	first := makeItem(owner, "first")
	second := makeItem(owner, "second")
	third := makeItem(owner, "third")
	for _, it := range []*model.ReminderItem{first, second, third} {
		require.NoError(t, s.Items().Insert(ctx, it))
	}

	// Each insert prepends, so the newest item lists first.
	list, err := s.Items().List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "first", list[2].Title)

	other, err := s.Items().List(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func testItemsReplaceAll(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "somchai"

	require.NoError(t, s.Items().Insert(ctx, makeItem(owner, "stale")))

	fresh := []model.ReminderItem{
		*makeItem(owner, "alpha"),
		*makeItem(owner, "beta"),
	}
	require.NoError(t, s.Items().ReplaceAll(ctx, owner, fresh))

	list, err := s.Items().List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Title)
	assert.Equal(t, "beta", list[1].Title)

	require.NoError(t, s.Items().ReplaceAll(ctx, owner, nil))
	list, err = s.Items().List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testLegacyRecurrence(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := "somchai"

	item := makeItem(owner, "ผ่อนรถ")
	item.Recurrence = "monthly_3"
	require.NoError(t, s.Items().Insert(ctx, item))

	got, err := s.Items().Get(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "monthly-3", got.Recurrence)

	list, err := s.Items().List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "monthly-3", list[0].Recurrence)
}

func testPrefs(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Prefs().Get(ctx, "somchai")
	assert.ErrorIs(t, err, model.ErrNotFound)

	p := model.DefaultPreferences("somchai")
	require.NoError(t, s.Prefs().Put(ctx, &p))

	got, err := s.Prefs().Get(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, "th", got.Locale)
	assert.Equal(t, 100, got.FontScale)

	p.Theme = "dark"
	p.FontScale = 112
	require.NoError(t, s.Prefs().Put(ctx, &p))

	got, err = s.Prefs().Get(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 112, got.FontScale)
}

func makeItem(owner, title string) *model.ReminderItem {
	return &model.ReminderItem{
		ID:       uuid.NewString(),
		Owner:    owner,
		Title:    title,
		Priority: model.PriorityMedium,
	}
}
