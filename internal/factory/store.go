package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/config"
	storepkg "github.com/remindly/remindly-server/internal/store"
	storepg "github.com/remindly/remindly-server/internal/store/postgres"
	storelite "github.com/remindly/remindly-server/internal/store/sqlite"
)

// NewStore builds the configured store driver.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		st, err := storepg.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info().Msg("postgres store ready")
		return st, nil
	case "sqlite":
		st, err := storelite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
