package jobs

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/members"
	"github.com/fedesecco/skibidi-bot/internal/polls"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	err      error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, b.err
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: b.err == nil}, b.err
}

type fakeCloser struct {
	stored map[string]polls.EventPollDTO
	closed []string
}

func (f *fakeCloser) GetPoll(_ context.Context, pollID string) (polls.EventPollDTO, error) {
	p, ok := f.stored[pollID]
	if !ok {
		return polls.EventPollDTO{}, polls.ErrNotFound
	}
	return p, nil
}

func (f *fakeCloser) MarkClosed(_ context.Context, pollID string) error {
	f.closed = append(f.closed, pollID)
	return nil
}

func TestClosePollWorker(t *testing.T) {
	bot := &fakeBot{err: errors.New("poll has already been closed")}
	closer := &fakeCloser{}
	w := NewClosePollWorker(closer, bot, nil, nil)

	err := w.Work(context.Background(), &river.Job[polls.ClosePollArgs]{
		Args: polls.ClosePollArgs{PollID: "p1", ChatID: -5, MessageID: 33},
	})
	require.NoError(t, err)

	require.Len(t, bot.requests, 1)
	stop := bot.requests[0].(tgbotapi.StopPollConfig)
	assert.Equal(t, int64(-5), stop.ChatID)
	assert.Equal(t, 33, stop.MessageID)
	assert.Equal(t, []string{"p1"}, closer.closed)
}

func TestClosePollWorkerSkipsClosedPoll(t *testing.T) {
	bot := &fakeBot{}
	closer := &fakeCloser{stored: map[string]polls.EventPollDTO{
		"p1": {PollID: "p1", Status: polls.StatusClosed},
		"p2": {PollID: "p2", Status: polls.StatusOpen},
	}}
	w := NewClosePollWorker(closer, bot, nil, nil)

	require.NoError(t, w.Work(context.Background(), &river.Job[polls.ClosePollArgs]{
		Args: polls.ClosePollArgs{PollID: "p1", ChatID: -5, MessageID: 33},
	}))
	assert.Empty(t, bot.requests)
	assert.Empty(t, closer.closed)

	require.NoError(t, w.Work(context.Background(), &river.Job[polls.ClosePollArgs]{
		Args: polls.ClosePollArgs{PollID: "p2", ChatID: -5, MessageID: 34},
	}))
	assert.Len(t, bot.requests, 1)
	assert.Equal(t, []string{"p2"}, closer.closed)
}

type fakeDirectory struct {
	chats   []members.ChatRecord
	members map[int64][]members.ChatMemberRecord
	err     error
}

func (d *fakeDirectory) ListChats(context.Context) ([]members.ChatRecord, error) {
	return d.chats, d.err
}

func (d *fakeDirectory) ListMembers(_ context.Context, chatID int64) ([]members.ChatMemberRecord, error) {
	return d.members[chatID], nil
}

type fakeResponder struct {
	reply llm.Reply
	err   error
	reqs  []llm.CronRequest
}

func (r *fakeResponder) GenerateCronReply(_ context.Context, req llm.CronRequest) (llm.Reply, error) {
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		chats: []members.ChatRecord{{ChatID: 1, Language: "ru"}, {ChatID: 2, Language: "xx"}, {ChatID: 3, Language: "en"}},
		members: map[int64][]members.ChatMemberRecord{
			1: {{UserID: 10, FirstName: "Ivan"}, {UserID: 11, Username: "olga"}},
			2: {{UserID: 20}},
		},
	}
}

func sentTexts(b *fakeBot) map[int64]string {
	out := map[int64]string{}
	for _, c := range b.sent {
		m := c.(tgbotapi.MessageConfig)
		out[m.ChatID] = m.Text
	}
	return out
}

func TestLoserOfDayFallbackText(t *testing.T) {
	bot := &fakeBot{}
	tr := i18n.MustNew()
	job := &LoserOfDay{
		Chats:   newDirectory(),
		Sender:  bot,
		I18n:    tr,
		Chance:  1,
		Float64: func() float64 { return 0 },
		IntN:    func(n int) int { return n - 1 },
	}

	require.NoError(t, job.Run(context.Background()))

	texts := sentTexts(bot)
	require.Len(t, texts, 2, "chat 3 has no members")
	assert.Equal(t, tr.T("ru", "loser_of_day", "@olga"), texts[1])
	assert.Equal(t, tr.T("en", "loser_of_day", "user 20"), texts[2])
}

func TestLoserOfDayRespectsChance(t *testing.T) {
	bot := &fakeBot{}
	job := &LoserOfDay{
		Chats:   newDirectory(),
		Sender:  bot,
		I18n:    i18n.MustNew(),
		Chance:  DefaultLoserChance,
		Float64: func() float64 { return 0.5 },
	}
	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, bot.sent)
}

func TestLoserOfDayUsesModelReply(t *testing.T) {
	bot := &fakeBot{}
	responder := &fakeResponder{reply: llm.Reply{InferredCommand: llm.CommandUnknown, ResponseText: "Ivan, you lost today"}}
	dir := newDirectory()
	dir.chats = dir.chats[:1]
	job := &LoserOfDay{
		Chats:     dir,
		Sender:    bot,
		I18n:      i18n.MustNew(),
		Responder: responder,
		Chance:    1,
		Float64:   func() float64 { return 0 },
		IntN:      func(int) int { return 0 },
	}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "Ivan, you lost today", sentTexts(bot)[1])
	require.Len(t, responder.reqs, 1)
	assert.Equal(t, LoserOfDayID, responder.reqs[0].CommandID)
}

func TestLoserOfDayModelFailureFallsBack(t *testing.T) {
	bot := &fakeBot{}
	tr := i18n.MustNew()
	dir := newDirectory()
	dir.chats = dir.chats[:1]
	job := &LoserOfDay{
		Chats:     dir,
		Sender:    bot,
		I18n:      tr,
		Responder: &fakeResponder{err: errors.New("quota")},
		Chance:    1,
		Float64:   func() float64 { return 0 },
		IntN:      func(int) int { return 0 },
	}
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, tr.T("ru", "loser_of_day", "Ivan"), sentTexts(bot)[1])
}

func TestLoserOfDayListChatsError(t *testing.T) {
	dir := newDirectory()
	dir.err = errors.New("db down")
	job := &LoserOfDay{Chats: dir, Sender: &fakeBot{}, I18n: i18n.MustNew(), Chance: 1}
	assert.Error(t, job.Run(context.Background()))
}

func TestRegistry(t *testing.T) {
	var ran []string
	r := NewRegistry(
		Job{ID: "b", Run: func(context.Context) error { ran = append(ran, "b"); return nil }},
		Job{ID: "a", Run: func(context.Context) error { ran = append(ran, "a"); return nil }},
	)
	assert.Equal(t, []string{"a", "b"}, r.IDs())

	require.NoError(t, r.Run(context.Background(), "a"))
	assert.Equal(t, []string{"a"}, ran)

	err := r.Run(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: a, b")
}

func TestRunJobWorker(t *testing.T) {
	calls := 0
	r := NewRegistry(Job{ID: LoserOfDayID, Run: func(context.Context) error { calls++; return nil }})
	w := NewRunJobWorker(r, nil, nil)

	require.NoError(t, w.Work(context.Background(), &river.Job[RunJobArgs]{Args: RunJobArgs{JobID: LoserOfDayID}}))
	assert.Equal(t, 1, calls)
	assert.Error(t, w.Work(context.Background(), &river.Job[RunJobArgs]{Args: RunJobArgs{JobID: "missing"}}))
}

func TestPeriodicJob(t *testing.T) {
	job, err := PeriodicJob(LoserOfDayID, "0 9 * * *")
	require.NoError(t, err)
	assert.NotNil(t, job)

	_, err = PeriodicJob(LoserOfDayID, "every day")
	assert.Error(t, err)
}
