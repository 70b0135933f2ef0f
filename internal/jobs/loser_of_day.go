package jobs

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
)

// LoserOfDayID identifies the job on the command line and in metrics.
const LoserOfDayID = "loser-of-day"

// DefaultLoserChance is the per-chat probability of a draw on each run.
const DefaultLoserChance = 0.1

// ChatDirectory lists stored chats and their members.
type ChatDirectory interface {
	ListChats(ctx context.Context) ([]members.ChatRecord, error)
	ListMembers(ctx context.Context, chatID int64) ([]members.ChatMemberRecord, error)
}

// Sender posts messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// CronResponder writes scheduled messages with the model.
type CronResponder interface {
	GenerateCronReply(ctx context.Context, req llm.CronRequest) (llm.Reply, error)
}

// LoserOfDay names a random member in some of the stored chats.
type LoserOfDay struct {
	Chats     ChatDirectory
	Sender    Sender
	I18n      i18n.Translator
	Responder CronResponder // optional
	Chance    float64
	Logger    logger.Logger

	// Float64 and IntN default to math/rand/v2.
	Float64 func() float64
	IntN    func(n int) int
}

// Run draws once for every chat. Only listing chats can fail the run; per
// chat failures are logged.
func (j *LoserOfDay) Run(ctx context.Context) error {
	log := j.Logger
	if log == nil {
		log = logger.Nop()
	}
	float64fn, intN := j.Float64, j.IntN
	if float64fn == nil {
		float64fn = rand.Float64
	}
	if intN == nil {
		intN = rand.IntN
	}

	chats, err := j.Chats.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	for _, chat := range chats {
		if float64fn() >= j.Chance {
			continue
		}
		ms, err := j.Chats.ListMembers(ctx, chat.ChatID)
		if err != nil {
			log.Error(ctx, "list members failed", logger.Int64("chat_id", chat.ChatID), logger.Error(err))
			continue
		}
		if len(ms) == 0 {
			continue
		}
		chosen := ms[intN(len(ms))]
		lang := chat.Language
		if !i18n.IsSupported(lang) {
			lang = i18n.DefaultLanguage
		}
		text := j.compose(ctx, log, chat, lang, chosen)
		if _, err := j.Sender.Send(tgbotapi.NewMessage(chat.ChatID, text)); err != nil {
			log.Error(ctx, "send loser of day failed", logger.Int64("chat_id", chat.ChatID), logger.Error(err))
			continue
		}
		log.Info(ctx, "loser of day posted", logger.Int64("chat_id", chat.ChatID), logger.Int64("user_id", chosen.UserID))
	}
	return nil
}

func (j *LoserOfDay) compose(ctx context.Context, log logger.Logger, chat members.ChatRecord, lang string, chosen members.ChatMemberRecord) string {
	name := chosen.DisplayName()
	fallback := j.I18n.T(lang, "loser_of_day", name)
	if j.Responder == nil {
		return fallback
	}
	reply, err := j.Responder.GenerateCronReply(ctx, llm.CronRequest{
		CommandID: LoserOfDayID,
		Payload: map[string]any{
			"chatId":   chat.ChatID,
			"language": lang,
			"loser":    name,
		},
	})
	if err != nil {
		log.Warn(ctx, "cron reply failed, using fallback", logger.Int64("chat_id", chat.ChatID), logger.Error(err))
		return fallback
	}
	text := strings.TrimSpace(reply.ResponseText)
	if text == "" {
		return fallback
	}
	return text
}
