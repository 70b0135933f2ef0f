package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/commands"
	"github.com/fedesecco/skibidi-bot/internal/event"
	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
)

func (b *Bot) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	chatID := msg.Chat.ID
	if !b.isAllowed(chatID) {
		b.log.Debug(ctx, "ignoring chat outside allow-list", logger.Int64("chat_id", chatID))
		return
	}
	lang := b.chatLanguage(ctx, chatID, msg.From)

	if b.events != nil && b.events.HandleMessage(ctx, msg) {
		return
	}
	if msg.IsCommand() && b.handleCommand(ctx, msg, lang) {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" || !b.isMentioned(text) {
		return
	}
	b.answerMention(ctx, msg, lang, text)
}

// handleCommand runs slash commands addressed to this bot. It reports
// whether the command was handled.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, lang string) bool {
	if _, target, ok := strings.Cut(msg.CommandWithAt(), "@"); ok && !strings.EqualFold(target, b.username) {
		return false
	}
	switch msg.Command() {
	case "start":
		commands.Execute(ctx, llm.Reply{InferredCommand: llm.CommandRegister}, b.commandContext(msg.Chat.ID, lang, *msg.From))
		b.reply(ctx, msg, b.tr.T(lang, "welcome"))
	case "language", "lang":
		b.handleLanguage(ctx, msg, lang)
	case "nominate":
		b.handleNominate(ctx, msg, lang)
	case "event":
		if b.events == nil {
			return false
		}
		if err := b.events.Start(ctx, msg, lang); err != nil && !errors.Is(err, event.ErrInProgress) {
			b.log.Error(ctx, "start event failed", logger.Int64("chat_id", msg.Chat.ID), logger.Error(err))
		}
	case "cancel":
		// nothing to cancel outside a live conversation
	default:
		return false
	}
	return true
}

func (b *Bot) handleLanguage(ctx context.Context, msg *tgbotapi.Message, lang string) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(ctx, msg, b.tr.T(lang, "language_help"))
		return
	}
	next, ok := i18n.Normalize(arg)
	if !ok {
		b.reply(ctx, msg, b.tr.T(lang, "language_invalid"))
		return
	}
	if b.store != nil {
		if err := b.store.SetChatLanguage(ctx, msg.Chat.ID, next); err != nil {
			b.log.Error(ctx, "set chat language failed", logger.Int64("chat_id", msg.Chat.ID), logger.Error(err))
		}
	}
	b.reply(ctx, msg, b.tr.T(next, "language_set", i18n.Label(next)))
}

func (b *Bot) handleNominate(ctx context.Context, msg *tgbotapi.Message, lang string) {
	m, ok := commands.PickMember(ctx, b.commandContext(msg.Chat.ID, lang, *msg.From))
	if !ok {
		b.reply(ctx, msg, b.tr.T(lang, "nominate_no_candidates"))
		return
	}
	b.reply(ctx, msg, b.tr.T(lang, "nominate_result", m.DisplayName()))
}

func (b *Bot) answerMention(ctx context.Context, msg *tgbotapi.Message, lang, text string) {
	if b.responder == nil {
		return
	}
	req := llm.ChatRequest{
		Text:        b.modelInput(text),
		ChatID:      msg.Chat.ID,
		ChatTitle:   msg.Chat.Title,
		UserID:      msg.From.ID,
		UserName:    formatUserName(msg.From),
		BotUsername: b.username,
	}

	started := time.Now()
	reply, err := b.responder.GenerateChatReply(ctx, req)
	b.metrics.ObserveAILatency(time.Since(started).Seconds())
	if err != nil {
		b.metrics.IncAIError()
		b.log.Error(ctx, "model request failed", logger.Int64("chat_id", msg.Chat.ID), logger.Error(err))
		b.send(ctx, msg.Chat.ID, b.tr.T(lang, "ai_failure"))
		return
	}
	b.metrics.IncAIReply(string(reply.InferredCommand))
	b.log.Debug(ctx, "model reply parsed",
		logger.Int64("chat_id", msg.Chat.ID),
		logger.String("command", string(reply.InferredCommand)),
	)

	out := strings.TrimSpace(commands.Execute(ctx, reply, b.commandContext(msg.Chat.ID, lang, *msg.From)))
	if out == "" {
		b.send(ctx, msg.Chat.ID, b.tr.T(lang, "ai_empty_reply"))
		return
	}
	b.reply(ctx, msg, out)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error(ctx, "send message failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func formatUserName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return "@" + u.UserName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return "user"
}
