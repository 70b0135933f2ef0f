// Package handlers routes Telegram updates to the bot's features.
package handlers

import (
	"context"
	"errors"
	"regexp"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/commands"
	"github.com/fedesecco/skibidi-bot/internal/event"
	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
	"github.com/fedesecco/skibidi-bot/internal/metrics"
)

// Sender is the Telegram surface the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Store is the chat storage the handlers use.
type Store interface {
	commands.Store
	GetChatLanguage(ctx context.Context, chatID int64) (string, error)
	SetChatLanguage(ctx context.Context, chatID int64, lang string) error
}

// ChatResponder answers mentions through the model.
type ChatResponder interface {
	GenerateChatReply(ctx context.Context, req llm.ChatRequest) (llm.Reply, error)
}

// Options configures a Bot. A nil Store runs the bot without persistence.
type Options struct {
	API             Sender
	Username        string
	Store           Store
	Responder       ChatResponder
	Events          *event.Manager
	Translator      i18n.Translator
	AllowedChats    map[int64]struct{}
	DefaultLanguage string
	Metrics         *metrics.Manager
	Logger          logger.Logger
}

// Bot handles updates for one bot account.
type Bot struct {
	api       Sender
	username  string
	mention   *regexp.Regexp
	store     Store
	responder ChatResponder
	events    *event.Manager
	tr        i18n.Translator
	allowed   map[int64]struct{}
	lang      string
	metrics   *metrics.Manager
	log       logger.Logger

	// ensured holds chats already written by ensureChatOnce.
	ensured sync.Map
}

func New(opts Options) *Bot {
	b := &Bot{
		api:       opts.API,
		username:  opts.Username,
		mention:   mentionPattern(opts.Username),
		store:     opts.Store,
		responder: opts.Responder,
		events:    opts.Events,
		tr:        opts.Translator,
		allowed:   opts.AllowedChats,
		lang:      opts.DefaultLanguage,
		metrics:   opts.Metrics,
		log:       opts.Logger,
	}
	if b.lang == "" {
		b.lang = i18n.DefaultLanguage
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	return b
}

// HandleUpdate dispatches one update. It never panics on malformed updates.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(ctx, "update handler panicked", logger.Int("update_id", update.UpdateID), logger.Any("panic", r))
		}
	}()
	switch {
	case update.Message != nil:
		b.metrics.IncUpdate("message")
		b.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.metrics.IncUpdate("callback")
		b.HandleCallback(ctx, update.CallbackQuery)
	default:
		b.metrics.IncUpdate("other")
	}
}

func (b *Bot) isAllowed(chatID int64) bool {
	_, ok := b.allowed[chatID]
	return ok
}

// chatLanguage registers the chat on first sight and returns its language.
func (b *Bot) chatLanguage(ctx context.Context, chatID int64, from *tgbotapi.User) string {
	if b.store == nil {
		return b.lang
	}
	b.ensureChatOnce(ctx, chatID, from)
	lang, err := b.store.GetChatLanguage(ctx, chatID)
	if err != nil {
		if !errors.Is(err, members.ErrNotFound) {
			b.log.Warn(ctx, "get chat language failed", logger.Int64("chat_id", chatID), logger.Error(err))
		}
		return b.lang
	}
	if !i18n.IsSupported(lang) {
		return b.lang
	}
	return lang
}

func (b *Bot) ensureChatOnce(ctx context.Context, chatID int64, from *tgbotapi.User) {
	if _, done := b.ensured.Load(chatID); done {
		return
	}
	lang := b.lang
	if from != nil && from.LanguageCode != "" {
		lang = i18n.Match(from.LanguageCode)
	}
	if err := b.store.EnsureChat(ctx, chatID, lang); err != nil {
		b.log.Warn(ctx, "ensure chat failed", logger.Int64("chat_id", chatID), logger.Error(err))
		return
	}
	b.ensured.Store(chatID, struct{}{})
}

func (b *Bot) commandContext(chatID int64, lang string, user tgbotapi.User) commands.Context {
	c := commands.Context{
		ChatID:   chatID,
		Language: lang,
		User:     user,
		Logger:   b.log.Named("commands"),
	}
	if b.store != nil {
		c.Store = b.store
	}
	return c
}

func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		b.log.Error(ctx, "send reply failed", logger.Int64("chat_id", msg.Chat.ID), logger.Error(err))
	}
}
