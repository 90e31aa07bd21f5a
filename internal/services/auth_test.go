package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/sheet"
	"github.com/remindly/remindly-server/internal/store"
	"github.com/remindly/remindly-server/internal/store/sqlite"
)

type fakeSheet struct {
	loginOK  bool
	apiKey   *string
	loginErr error
}

func (f *fakeSheet) Read(context.Context, string) ([]model.ReminderItem, error) { return nil, nil }
func (f *fakeSheet) Save(context.Context, string, []model.ReminderItem) error   { return nil }
func (f *fakeSheet) Login(_ context.Context, username, _ string) (*sheet.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &sheet.LoginResult{Success: f.loginOK, Username: username, APIKey: f.apiKey}, nil
}

// recordingTracker captures which users the login flow hands to the syncer.
type recordingTracker struct {
	tracked []string
	pulled  []string
	pullErr error
}

func (r *recordingTracker) Track(username string) { r.tracked = append(r.tracked, username) }
func (r *recordingTracker) Pull(_ context.Context, username string) error {
	r.pulled = append(r.pulled, username)
	return r.pullErr
}

func newAuthFixture(t *testing.T, sheetClient sheet.Client) (*AuthService, store.Store) {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(st, issuer, sheetClient, nil, zerolog.Nop()), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "somchai", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "somchai", "again")
	assert.ErrorIs(t, err, model.ErrConflict)

	res, err := svc.Login(ctx, "somchai", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "somchai", res.Username)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "somchai", "wrong")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestLoginUnknownUserWithoutSheet(t *testing.T) {
	svc, _ := newAuthFixture(t, nil)
	_, err := svc.Login(context.Background(), "stranger", "pw")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestLoginProvisionsViaSheet(t *testing.T) {
	key := "sk-sheet"
	svc, st := newAuthFixture(t, &fakeSheet{loginOK: true, apiKey: &key})
	ctx := context.Background()

	res, err := svc.Login(ctx, "somchai", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, res.APIKey)
	assert.Equal(t, "sk-sheet", *res.APIKey)

	// Provisioned locally: a second login succeeds without the sheet.
	user, err := st.Users().Get(ctx, "somchai")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(user.PasswordHash, "s3cret"))

	svc2 := NewAuthService(st, auth.NewTokenIssuer("test-secret", time.Hour), nil, nil, zerolog.Nop())
	_, err = svc2.Login(ctx, "somchai", "s3cret")
	require.NoError(t, err)
}

func TestLoginRegistersUserWithSyncer(t *testing.T) {
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	tracker := &recordingTracker{}
	svc := NewAuthService(st, auth.NewTokenIssuer("test-secret", time.Hour), nil, tracker, zerolog.Nop())
	ctx := context.Background()

	_, err = svc.Register(ctx, "somchai", "s3cret")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "somchai", "s3cret")
	require.NoError(t, err)

	// A local login is tracked for the periodic pull but not seeded.
	assert.Equal(t, []string{"somchai"}, tracker.tracked)
	assert.Empty(t, tracker.pulled)
}

func TestSheetProvisioningSeedsLocalCollection(t *testing.T) {
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	tracker := &recordingTracker{}
	svc := NewAuthService(st, auth.NewTokenIssuer("test-secret", time.Hour), &fakeSheet{loginOK: true}, tracker, zerolog.Nop())
	ctx := context.Background()

	_, err = svc.Login(ctx, "somchai", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, []string{"somchai"}, tracker.pulled)
	assert.Equal(t, []string{"somchai"}, tracker.tracked)
}

func TestFailedInitialPullDoesNotFailLogin(t *testing.T) {
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	tracker := &recordingTracker{pullErr: context.DeadlineExceeded}
	svc := NewAuthService(st, auth.NewTokenIssuer("test-secret", time.Hour), &fakeSheet{loginOK: true}, tracker, zerolog.Nop())

	res, err := svc.Login(context.Background(), "somchai", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "somchai", res.Username)
}

func TestLoginSheetRejection(t *testing.T) {
	svc, _ := newAuthFixture(t, &fakeSheet{loginOK: false})
	_, err := svc.Login(context.Background(), "somchai", "bad")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestPreferencesDefaultAndRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t, nil)
	ctx := context.Background()

	prefs, err := svc.Preferences(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.Equal(t, "th", prefs.Locale)
	assert.Equal(t, 100, prefs.FontScale)

	err = svc.SavePreferences(ctx, "somchai", model.Preferences{Theme: "dark", Locale: "en", FontScale: 0})
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, svc.SavePreferences(ctx, "somchai", model.Preferences{Theme: "dark", Locale: "en", FontScale: 112}))
	prefs, err = svc.Preferences(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, 112, prefs.FontScale)
}
