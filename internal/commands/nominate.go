package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
)

const fallbackLabel = "someone"

var placeholderRe = regexp.MustCompile(`(?i)\[random_user\]`)

func handleNominate(ctx context.Context, reply llm.Reply, c Context) string {
	text := reply.ResponseText
	if strings.TrimSpace(text) != "" && !placeholderRe.MatchString(text) {
		return text
	}
	label := fallbackLabel
	if m, ok := PickMember(ctx, c); ok {
		label = m.Label(fallbackLabel)
	}
	if strings.TrimSpace(text) == "" {
		return label
	}
	return placeholderRe.ReplaceAllLiteralString(text, label)
}

// PickMember returns a uniformly random chat member other than the requester.
// It reports false when storage is unavailable or nobody else is known.
func PickMember(ctx context.Context, c Context) (members.ChatMemberRecord, bool) {
	if c.Store == nil {
		return members.ChatMemberRecord{}, false
	}
	all, err := c.Store.ListMembers(ctx, c.ChatID)
	if err != nil {
		c.log().Error(ctx, "list members failed", logger.Int64("chat_id", c.ChatID), logger.Error(err))
		return members.ChatMemberRecord{}, false
	}
	candidates := make([]members.ChatMemberRecord, 0, len(all))
	for _, m := range all {
		if m.UserID != c.User.ID {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return members.ChatMemberRecord{}, false
	}
	return candidates[c.intN(len(candidates))], true
}
