package factory

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/config"
	"github.com/remindly/remindly-server/internal/sheet"
)

// NewSheetClient builds the spreadsheet mirror client, or nil when no sheet
// URL is configured (the service then runs purely local).
func NewSheetClient(cfg *config.Config, log zerolog.Logger) sheet.Client {
	if cfg.SheetURL == "" {
		log.Info().Msg("no sheet URL configured; remote mirror disabled")
		return nil
	}
	return sheet.NewClient(cfg.SheetURL, log,
		sheet.WithRetry(cfg.SheetRetryCount, time.Duration(cfg.SheetBackoffSeconds)*time.Second))
}
