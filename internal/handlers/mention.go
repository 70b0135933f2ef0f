package handlers

import (
	"regexp"
	"strings"
)

// EmptyMentionText is sent to the model when the message was only a mention.
const EmptyMentionText = "(user mentioned the bot without extra text)"

func mentionPattern(username string) *regexp.Regexp {
	if username == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(username))
}

// isMentioned reports whether text contains @username, ignoring case.
func (b *Bot) isMentioned(text string) bool {
	return b.mention != nil && b.mention.MatchString(text)
}

// stripMention removes every mention of the bot and collapses whitespace.
func (b *Bot) stripMention(text string) string {
	if b.mention != nil {
		text = b.mention.ReplaceAllLiteralString(text, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}

// modelInput is the text sent to the model for a mention.
func (b *Bot) modelInput(text string) string {
	if cleaned := b.stripMention(text); cleaned != "" {
		return cleaned
	}
	return EmptyMentionText
}
