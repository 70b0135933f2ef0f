// Package commands executes the structured commands the model infers from chat.
package commands

import (
	"context"
	"math/rand/v2"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
)

// Store is the subset of chat storage the handlers use.
type Store interface {
	EnsureChat(ctx context.Context, chatID int64, lang string) error
	UpsertMember(ctx context.Context, chatID int64, u tgbotapi.User) error
	SetBirthday(ctx context.Context, chatID, userID int64, birthday string) error
	ListMembers(ctx context.Context, chatID int64) ([]members.ChatMemberRecord, error)
}

// Context carries what a handler needs about the triggering message.
// A nil Store means storage is unavailable.
type Context struct {
	ChatID   int64
	Language string
	User     tgbotapi.User
	Store    Store
	Logger   logger.Logger
	// IntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

func (c Context) intN(n int) int {
	if c.IntN != nil {
		return c.IntN(n)
	}
	return rand.IntN(n)
}

func (c Context) log() logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}
	return c.Logger
}

type handler func(ctx context.Context, reply llm.Reply, c Context) string

var handlers = map[llm.InferredCommand]handler{
	llm.CommandRegister: handleRegister,
	llm.CommandBirthday: handleBirthday,
	llm.CommandNominate: handleNominate,
	llm.CommandUnknown:  handleUnknown,
}

// Execute runs the handler for reply.InferredCommand and returns the text to
// send back. It never fails: storage errors are logged and the reply text is
// still returned.
func Execute(ctx context.Context, reply llm.Reply, c Context) string {
	h, ok := handlers[reply.InferredCommand]
	if !ok {
		h = handleUnknown
	}
	return h(ctx, reply, c)
}

func handleUnknown(_ context.Context, reply llm.Reply, _ Context) string {
	return reply.ResponseText
}
