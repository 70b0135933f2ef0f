package jobs

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/riverqueue/river"

	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/metrics"
	"github.com/fedesecco/skibidi-bot/internal/polls"
)

// Requester is the Telegram call used to stop polls.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// PollCloser reads and records the state of published polls.
type PollCloser interface {
	GetPoll(ctx context.Context, pollID string) (polls.EventPollDTO, error)
	MarkClosed(ctx context.Context, pollID string) error
}

// ClosePollWorker stops event polls whose close time was too far ahead for
// Telegram's close_date.
type ClosePollWorker struct {
	river.WorkerDefaults[polls.ClosePollArgs]
	polls   PollCloser
	bot     Requester
	metrics *metrics.Manager
	log     logger.Logger
}

func NewClosePollWorker(closer PollCloser, bot Requester, m *metrics.Manager, log logger.Logger) *ClosePollWorker {
	if log == nil {
		log = logger.Nop()
	}
	return &ClosePollWorker{polls: closer, bot: bot, metrics: m, log: log}
}

func (w *ClosePollWorker) Work(ctx context.Context, job *river.Job[polls.ClosePollArgs]) error {
	args := job.Args
	if w.polls != nil {
		p, err := w.polls.GetPoll(ctx, args.PollID)
		switch {
		case errors.Is(err, polls.ErrNotFound):
			// publishing does not fail when the record could not be stored
		case err != nil:
			return err
		case p.Status == polls.StatusClosed:
			w.log.Debug(ctx, "event poll already closed", logger.String("poll_id", args.PollID))
			return nil
		}
	}
	if _, err := w.bot.Request(tgbotapi.NewStopPoll(args.ChatID, args.MessageID)); err != nil {
		// already stopped or deleted by an admin
		w.log.Warn(ctx, "stop poll failed",
			logger.String("poll_id", args.PollID),
			logger.Int64("chat_id", args.ChatID),
			logger.Error(err),
		)
	}
	if w.polls != nil {
		if err := w.polls.MarkClosed(ctx, args.PollID); err != nil {
			return err
		}
	}
	w.metrics.IncPollClosed()
	w.log.Info(ctx, "event poll closed", logger.String("poll_id", args.PollID))
	return nil
}
