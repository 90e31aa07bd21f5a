package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/sheet"
	"github.com/remindly/remindly-server/internal/store"
)

// LoginResult is what a successful login hands back to the handler.
type LoginResult struct {
	Token    string
	Username string
	APIKey   *string
}

// SyncTracker puts a logged-in user on the periodic pull schedule and seeds a
// freshly provisioned user's collection from the sheet. The syncer implements
// it; a nil tracker means the service runs purely local.
type SyncTracker interface {
	Track(username string)
	Pull(ctx context.Context, username string) error
}

// AuthService verifies credentials and manages per-user preferences.
// When a sheet client is configured, unknown local users are delegated to the
// sheet's login action and provisioned locally on success.
type AuthService struct {
	store  store.Store
	issuer *auth.TokenIssuer
	sheet  sheet.Client
	sync   SyncTracker
	log    zerolog.Logger
}

func NewAuthService(s store.Store, issuer *auth.TokenIssuer, sheetClient sheet.Client, tracker SyncTracker, log zerolog.Logger) *AuthService {
	return &AuthService{store: s, issuer: issuer, sheet: sheetClient, sync: tracker, log: log}
}

// Register creates a local user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}
	if _, err := s.store.Users().Get(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", model.ErrConflict, username)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.store.Users().Create(ctx, &model.User{Username: username, PasswordHash: hash})
}

// Login authenticates and mints a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}

	user, err := s.store.Users().Get(ctx, username)
	switch {
	case err == nil:
		if !auth.VerifyPassword(user.PasswordHash, password) {
			return nil, model.ErrUnauthorized
		}
	case errors.Is(err, model.ErrNotFound):
		user, err = s.loginViaSheet(ctx, username, password)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		return nil, err
	}
	if s.sync != nil {
		s.sync.Track(user.Username)
	}
	return &LoginResult{Token: token, Username: user.Username, APIKey: user.APIKey}, nil
}

// loginViaSheet delegates to the sheet login action and provisions the user
// locally so later logins work offline.
func (s *AuthService) loginViaSheet(ctx context.Context, username, password string) (*model.User, error) {
	if s.sheet == nil {
		return nil, model.ErrUnauthorized
	}
	res, err := s.sheet.Login(ctx, username, password)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("username", username).Msg("sheet login failed")
		return nil, model.ErrUnauthorized
	}
	if !res.Success {
		return nil, model.ErrUnauthorized
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().Create(ctx, &model.User{
		Username:     username,
		PasswordHash: hash,
		APIKey:       res.APIKey,
	})
	if err != nil {
		return nil, err
	}
	// Seed the local collection so the first session is not empty. A failed
	// pull does not fail the login; the periodic pull retries.
	if s.sync != nil {
		if err := s.sync.Pull(ctx, username); err != nil {
			s.log.Error().Stack().Err(err).Str("username", username).Msg("initial sheet pull failed")
		}
	}
	return user, nil
}

// Preferences returns the user's stored preferences, falling back to the
// defaults for users who never saved any.
func (s *AuthService) Preferences(ctx context.Context, username string) (*model.Preferences, error) {
	prefs, err := s.store.Prefs().Get(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		p := model.DefaultPreferences(username)
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// SavePreferences persists theme/locale/fontScale for the user.
func (s *AuthService) SavePreferences(ctx context.Context, username string, prefs model.Preferences) error {
	if prefs.FontScale <= 0 {
		return fmt.Errorf("%w: fontScale must be positive", model.ErrValidation)
	}
	prefs.Username = username
	return s.store.Prefs().Put(ctx, &prefs)
}
