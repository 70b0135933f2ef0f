package commands

import (
	"context"
	"strings"
	"time"

	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
)

var birthdayLayouts = []string{"2006-01-02", "02/01/2006"}

func handleBirthday(ctx context.Context, reply llm.Reply, c Context) string {
	raw, ok := reply.StringField("birthday")
	if !ok {
		return reply.ResponseText
	}
	date, ok := parseBirthday(raw)
	if !ok {
		c.log().Debug(ctx, "ignoring invalid birthday", logger.String("birthday", raw))
		return reply.ResponseText
	}
	if c.Store == nil {
		return reply.ResponseText
	}
	// The member row has to exist before the birthday update can land.
	ensureMember(ctx, c)
	if err := c.Store.SetBirthday(ctx, c.ChatID, c.User.ID, date); err != nil {
		c.log().Error(ctx, "set birthday failed",
			logger.Int64("chat_id", c.ChatID),
			logger.Int64("user_id", c.User.ID),
			logger.Error(err),
		)
	}
	return reply.ResponseText
}

// parseBirthday accepts YYYY-MM-DD or DD/MM/YYYY and returns the date as
// YYYY-MM-DD. Dates that do not exist in the calendar are rejected.
func parseBirthday(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthdayLayouts {
		if len(raw) != len(layout) {
			continue
		}
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Format(layout) != raw {
			continue
		}
		return t.Format("2006-01-02"), true
	}
	return "", false
}
