package polls

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/logger"
)

// MaxNativeCloseLead is the furthest ahead Telegram accepts a poll close_date.
const MaxNativeCloseLead = 600 * time.Second

var ErrNoPoll = errors.New("polls: telegram returned no poll")

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Store interface {
	InsertPoll(ctx context.Context, p *EventPollDTO) error
}

// Publisher posts polls and makes sure they close on time: natively through
// close_date when Telegram allows it, otherwise through a scheduled job.
type Publisher struct {
	sender  Sender
	store   Store
	service Service
	now     func() time.Time
	log     logger.Logger
}

// NewPublisher creates a Publisher. store and service may be nil; without a
// service, polls closing beyond MaxNativeCloseLead stay open.
func NewPublisher(sender Sender, store Store, service Service, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{sender: sender, store: store, service: service, now: time.Now, log: log}
}

// WithClock overrides the clock used to decide how a poll closes.
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (EventPollDTO, error) {
	cfg := tgbotapi.NewPoll(req.ChatID, req.Question, req.Options...)
	cfg.IsAnonymous = req.Anonymous
	cfg.AllowsMultipleAnswers = false
	native := req.CloseAt.Sub(p.now()) <= MaxNativeCloseLead
	if native {
		cfg.CloseDate = int(req.CloseAt.Unix())
	}

	sent, err := p.sender.Send(cfg)
	if err != nil {
		return EventPollDTO{}, fmt.Errorf("send poll: %w", err)
	}
	if sent.Poll == nil {
		return EventPollDTO{}, ErrNoPoll
	}

	dto := EventPollDTO{
		PollID:    sent.Poll.ID,
		ChatID:    req.ChatID,
		MessageID: sent.MessageID,
		Question:  req.Question,
		CreatorID: req.CreatorID,
		ClosesAt:  req.CloseAt.UTC(),
		Status:    StatusOpen,
	}
	if p.store != nil {
		if err := p.store.InsertPoll(ctx, &dto); err != nil {
			p.log.Error(ctx, "insert poll failed", logger.String("poll_id", dto.PollID), logger.Error(err))
		}
	}
	if native {
		return dto, nil
	}
	if p.service == nil {
		p.log.Warn(ctx, "no scheduler configured, poll will not close automatically", logger.String("poll_id", dto.PollID))
		return dto, nil
	}
	args := ClosePollArgs{PollID: dto.PollID, ChatID: dto.ChatID, MessageID: dto.MessageID}
	if err := p.service.ScheduleClose(ctx, args, req.CloseAt); err != nil {
		p.log.Error(ctx, "schedule poll close failed", logger.String("poll_id", dto.PollID), logger.Error(err))
	}
	return dto, nil
}
