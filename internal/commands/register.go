package commands

import (
	"context"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
)

func handleRegister(ctx context.Context, reply llm.Reply, c Context) string {
	ensureMember(ctx, c)
	return reply.ResponseText
}

// ensureMember stores the chat and the requesting user, logging failures.
// It reports whether both writes succeeded.
func ensureMember(ctx context.Context, c Context) bool {
	if c.Store == nil {
		return false
	}
	lang := c.Language
	if lang == "" {
		lang = i18n.DefaultLanguage
	}
	if err := c.Store.EnsureChat(ctx, c.ChatID, lang); err != nil {
		c.log().Error(ctx, "ensure chat failed", logger.Int64("chat_id", c.ChatID), logger.Error(err))
		return false
	}
	if err := c.Store.UpsertMember(ctx, c.ChatID, c.User); err != nil {
		c.log().Error(ctx, "upsert member failed",
			logger.Int64("chat_id", c.ChatID),
			logger.Int64("user_id", c.User.ID),
			logger.Error(err),
		)
		return false
	}
	return true
}
