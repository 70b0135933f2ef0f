package polls

import "time"

// Poll statuses stored in event_polls.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// EventPollDTO is a posted event poll.
type EventPollDTO struct {
	PollID    string
	ChatID    int64
	MessageID int
	Question  string
	CreatorID int64
	ClosesAt  time.Time
	Status    string
}

// PublishRequest describes a poll to post.
type PublishRequest struct {
	ChatID    int64
	CreatorID int64
	Question  string
	Options   []string
	Anonymous bool
	CloseAt   time.Time
}

// ClosePollArgs is the river job that stops a poll Telegram could not
// schedule natively.
type ClosePollArgs struct {
	PollID    string `json:"poll_id"`
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
}

func (ClosePollArgs) Kind() string { return "close_event_poll" }
