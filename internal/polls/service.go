package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// Service schedules background work for polls.
type Service interface {
	ScheduleClose(ctx context.Context, args ClosePollArgs, at time.Time) error
}

type riverService struct {
	client *river.Client[pgx.Tx]
}

// NewPollsService returns a Service that enqueues river jobs.
func NewPollsService(client *river.Client[pgx.Tx]) Service {
	return &riverService{client: client}
}

func (s *riverService) ScheduleClose(ctx context.Context, args ClosePollArgs, at time.Time) error {
	_, err := s.client.Insert(ctx, args, &river.InsertOpts{
		ScheduledAt: at,
		MaxAttempts: 5,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	})
	if err != nil {
		return fmt.Errorf("schedule close for poll %s: %w", args.PollID, err)
	}
	return nil
}
