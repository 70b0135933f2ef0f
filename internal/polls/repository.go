package polls

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("polls: not found")

type Repository struct {
	DB *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{DB: db}
}

func (s *Repository) InsertPoll(ctx context.Context, p *EventPollDTO) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO event_polls (
		poll_id, chat_id, message_id, question, creator_id, closes_at, status
	) VALUES ($1,$2,$3,$4,$5,$6,'open')
	ON CONFLICT (poll_id) DO NOTHING`,
		p.PollID, p.ChatID, p.MessageID, p.Question, p.CreatorID, p.ClosesAt,
	)
	if err != nil {
		return fmt.Errorf("insert poll %s: %w", p.PollID, err)
	}
	return nil
}

func (s *Repository) GetPoll(ctx context.Context, pollID string) (EventPollDTO, error) {
	var p EventPollDTO
	err := s.DB.QueryRow(ctx, `SELECT poll_id, chat_id, message_id, question, creator_id, closes_at, status
	FROM event_polls WHERE poll_id=$1`, pollID).
		Scan(&p.PollID, &p.ChatID, &p.MessageID, &p.Question, &p.CreatorID, &p.ClosesAt, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return EventPollDTO{}, ErrNotFound
	}
	if err != nil {
		return EventPollDTO{}, fmt.Errorf("get poll %s: %w", pollID, err)
	}
	return p, nil
}

func (s *Repository) MarkClosed(ctx context.Context, pollID string) error {
	_, err := s.DB.Exec(ctx, `UPDATE event_polls SET status='closed', closed_at=NOW() WHERE poll_id=$1`, pollID)
	if err != nil {
		return fmt.Errorf("mark poll %s closed: %w", pollID, err)
	}
	return nil
}
