package factory

import (
	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/assistant"
	"github.com/remindly/remindly-server/internal/config"
)

// NewAssistantProvider builds the LLM provider from config, or nil when no
// API key is set. A nil provider degrades chat to the inline apology reply.
func NewAssistantProvider(cfg *config.Config, log zerolog.Logger) assistant.Provider {
	if cfg.AssistantAPIKey == "" {
		log.Info().Msg("no assistant API key configured; chat replies degrade to fallback")
		return nil
	}
	switch cfg.AssistantProvider {
	case "", "deepseek":
		provider, err := assistant.NewDeepSeekProvider(cfg.AssistantAPIKey, cfg.AssistantModel)
		if err != nil {
			log.Warn().Err(err).Msg("assistant provider init failed; chat degrades to fallback")
			return nil
		}
		return provider
	default:
		log.Warn().Str("provider", cfg.AssistantProvider).Msg("unknown assistant provider; chat degrades to fallback")
		return nil
	}
}
