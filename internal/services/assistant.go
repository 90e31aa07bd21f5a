package services

import (
	"context"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/assistant"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/store"
)

// fallbackReply is shown when the provider is missing or errors out. The chat
// surface never propagates an error; failures read as an inline apology.
const fallbackReply = "ขออภัย ไม่สามารถประมวลผลคำตอบได้ในขณะนี้ โปรดตรวจสอบการเชื่อมต่อของคุณ"

// AssistantService answers free-form questions and produces the monthly
// smart summary over the user's items.
type AssistantService struct {
	store       store.Store
	provider    assistant.Provider
	clk         clock.Clock
	temperature float32
	log         zerolog.Logger
}

func NewAssistantService(s store.Store, provider assistant.Provider, clk clock.Clock, temperature float32, log zerolog.Logger) *AssistantService {
	return &AssistantService{store: s, provider: provider, clk: clk, temperature: temperature, log: log}
}

// Chat answers the user's query over their current items. Never returns an
// error: provider failures become an apology string in the reply.
func (s *AssistantService) Chat(ctx context.Context, username, query string, history []model.ChatMessage) string {
	items, err := s.store.Items().List(ctx, username)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("username", username).Msg("assistant item load failed")
		return fallbackReply
	}
	return s.complete(ctx, items, query, history)
}

// SmartSummary issues the canned monthly-overview query.
func (s *AssistantService) SmartSummary(ctx context.Context, username string) string {
	items, err := s.store.Items().List(ctx, username)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("username", username).Msg("assistant item load failed")
		return fallbackReply
	}
	return s.complete(ctx, items, assistant.SummaryQuery, nil)
}

func (s *AssistantService) complete(ctx context.Context, items []model.ReminderItem, query string, history []model.ChatMessage) string {
	if s.provider == nil {
		return fallbackReply
	}
	prompt := assistant.BuildPrompt(items, query, history, model.DateOf(s.clk.Now()))
	reply, err := s.provider.Complete(ctx, assistant.Request{
		System:      assistant.SystemInstruction,
		Prompt:      prompt,
		Temperature: s.temperature,
	})
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("assistant completion failed")
		return fallbackReply
	}
	if reply == "" {
		return fallbackReply
	}
	return reply
}
