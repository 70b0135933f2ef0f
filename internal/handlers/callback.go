package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/logger"
)

func (b *Bot) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil {
		return
	}
	if cq.Message != nil && cq.Message.Chat != nil && !b.isAllowed(cq.Message.Chat.ID) {
		return
	}
	if b.events != nil && b.events.HandleCallback(ctx, cq) {
		return
	}
	// Answer unknown callbacks to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Warn(ctx, "answer callback failed", logger.Error(err))
	}
}
