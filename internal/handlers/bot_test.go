package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedesecco/skibidi-bot/internal/event"
	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/members"
	"github.com/fedesecco/skibidi-bot/internal/polls"
)

const testChat int64 = -42

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{MessageID: len(f.sent) + 100}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fakeStore struct {
	langs    map[int64]string
	members  map[int64][]members.ChatMemberRecord
	ensured  int
	langErr  error
	birthday map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		langs:    map[int64]string{},
		members:  map[int64][]members.ChatMemberRecord{},
		birthday: map[int64]string{},
	}
}

func (s *fakeStore) EnsureChat(_ context.Context, chatID int64, lang string) error {
	s.ensured++
	if _, ok := s.langs[chatID]; !ok {
		s.langs[chatID] = lang
	}
	return nil
}

func (s *fakeStore) GetChatLanguage(_ context.Context, chatID int64) (string, error) {
	if s.langErr != nil {
		return "", s.langErr
	}
	l, ok := s.langs[chatID]
	if !ok {
		return "", members.ErrNotFound
	}
	return l, nil
}

func (s *fakeStore) SetChatLanguage(_ context.Context, chatID int64, lang string) error {
	s.langs[chatID] = lang
	return nil
}

func (s *fakeStore) UpsertMember(_ context.Context, chatID int64, u tgbotapi.User) error {
	s.members[chatID] = append(s.members[chatID], members.ChatMemberRecord{UserID: u.ID, FirstName: u.FirstName, Username: u.UserName})
	return nil
}

func (s *fakeStore) SetBirthday(_ context.Context, _ int64, userID int64, birthday string) error {
	s.birthday[userID] = birthday
	return nil
}

func (s *fakeStore) ListMembers(_ context.Context, chatID int64) ([]members.ChatMemberRecord, error) {
	return s.members[chatID], nil
}

type fakeResponder struct {
	reply llm.Reply
	err   error
	reqs  []llm.ChatRequest
}

func (r *fakeResponder) GenerateChatReply(_ context.Context, req llm.ChatRequest) (llm.Reply, error) {
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, req polls.PublishRequest) (polls.EventPollDTO, error) {
	return polls.EventPollDTO{ChatID: req.ChatID}, nil
}

type fixture struct {
	bot       *Bot
	api       *fakeAPI
	store     *fakeStore
	responder *fakeResponder
	tr        *i18n.Catalog
	events    *event.Manager
}

func newFixture() *fixture {
	f := &fixture{
		api:       &fakeAPI{},
		store:     newFakeStore(),
		responder: &fakeResponder{},
		tr:        i18n.MustNew(),
	}
	f.events = event.NewManager(event.Options{Sender: f.api, Publisher: nopPublisher{}, Translator: f.tr})
	f.bot = New(Options{
		API:          f.api,
		Username:     "skibidi_bot",
		Store:        f.store,
		Responder:    f.responder,
		Events:       f.events,
		Translator:   f.tr,
		AllowedChats: map[int64]struct{}{testChat: {}},
	})
	return f
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 9,
		Chat:      &tgbotapi.Chat{ID: testChat, Type: "supergroup", Title: "Friends"},
		From:      &tgbotapi.User{ID: 1, FirstName: "Ann", UserName: "ann", LanguageCode: "ru-RU"},
		Text:      text,
	}
}

func command(text string) *tgbotapi.Message {
	m := message(text)
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return m
}

func TestMentionHelpers(t *testing.T) {
	b := New(Options{Username: "Skibidi_Bot"})

	assert.True(t, b.isMentioned("hey @skibidi_bot what's up"))
	assert.True(t, b.isMentioned("@SKIBIDI_BOT"))
	assert.False(t, b.isMentioned("hey skibidi_bot"))

	assert.Equal(t, "hey what's up", b.stripMention("hey   @skibidi_bot   what's up"))
	assert.Equal(t, "a b", b.stripMention("@Skibidi_Bot a @skibidi_bot b"))
	assert.Equal(t, EmptyMentionText, b.modelInput("  @skibidi_bot  "))
}

func TestMentionIsAnsweredThroughModel(t *testing.T) {
	f := newFixture()
	f.responder.reply = llm.Reply{InferredCommand: llm.CommandUnknown, ResponseText: "yo"}

	f.bot.HandleMessage(context.Background(), message("@skibidi_bot   hello there"))

	require.Len(t, f.responder.reqs, 1)
	req := f.responder.reqs[0]
	assert.Equal(t, "hello there", req.Text)
	assert.Equal(t, "Friends", req.ChatTitle)
	assert.Equal(t, "@ann", req.UserName)

	out := f.api.last(t)
	assert.Equal(t, "yo", out.Text)
	assert.Equal(t, 9, out.ReplyToMessageID)
	assert.Equal(t, "ru", f.store.langs[testChat], "chat registered with the user's language")
}

func TestModelFailureSendsGenericMessage(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"
	f.responder.err = errors.New("quota exceeded")

	f.bot.HandleMessage(context.Background(), message("@skibidi_bot hi"))
	assert.Equal(t, f.tr.T("en", "ai_failure"), f.api.last(t).Text)
}

func TestEmptyReplyIsReplaced(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"
	f.responder.reply = llm.Reply{InferredCommand: llm.CommandUnknown, ResponseText: "   "}

	f.bot.HandleMessage(context.Background(), message("@skibidi_bot hi"))
	assert.Equal(t, f.tr.T("en", "ai_empty_reply"), f.api.last(t).Text)
}

func TestBirthdayReplyPersists(t *testing.T) {
	f := newFixture()
	f.responder.reply = llm.Reply{
		InferredCommand: llm.CommandBirthday,
		ResponseText:    "noted",
		Extra:           map[string]any{"birthday": "24/12/1991"},
	}
	f.bot.HandleMessage(context.Background(), message("@skibidi_bot my birthday is 24/12/1991"))
	assert.Equal(t, "1991-12-24", f.store.birthday[1])
	assert.Equal(t, "noted", f.api.last(t).Text)
}

func TestIgnoredMessages(t *testing.T) {
	f := newFixture()

	f.bot.HandleMessage(context.Background(), message("no mention here"))

	outside := message("@skibidi_bot hi")
	outside.Chat.ID = 999
	f.bot.HandleMessage(context.Background(), outside)

	fromBot := message("@skibidi_bot hi")
	fromBot.From.IsBot = true
	f.bot.HandleMessage(context.Background(), fromBot)

	assert.Empty(t, f.responder.reqs)
	assert.Empty(t, f.api.sent)
}

func TestCaptionMention(t *testing.T) {
	f := newFixture()
	f.responder.reply = llm.Reply{InferredCommand: llm.CommandUnknown, ResponseText: "nice pic"}
	msg := message("")
	msg.Caption = "look @skibidi_bot"

	f.bot.HandleMessage(context.Background(), msg)
	require.Len(t, f.responder.reqs, 1)
	assert.Equal(t, "look", f.responder.reqs[0].Text)
}

func TestLanguageCommand(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"

	f.bot.HandleMessage(context.Background(), command("/language"))
	assert.Equal(t, f.tr.T("en", "language_help"), f.api.last(t).Text)

	f.bot.HandleMessage(context.Background(), command("/language klingon"))
	assert.Equal(t, f.tr.T("en", "language_invalid"), f.api.last(t).Text)

	f.bot.HandleMessage(context.Background(), command("/lang russian"))
	assert.Equal(t, "ru", f.store.langs[testChat])
	assert.Equal(t, f.tr.T("ru", "language_set", "Русский"), f.api.last(t).Text)
}

func TestStartRegistersMember(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"

	f.bot.HandleMessage(context.Background(), command("/start"))
	assert.Equal(t, f.tr.T("en", "welcome"), f.api.last(t).Text)
	require.Len(t, f.store.members[testChat], 1)
	assert.Equal(t, int64(1), f.store.members[testChat][0].UserID)
}

func TestNominateCommand(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"

	f.bot.HandleMessage(context.Background(), command("/nominate"))
	assert.Equal(t, f.tr.T("en", "nominate_no_candidates"), f.api.last(t).Text)

	f.store.members[testChat] = []members.ChatMemberRecord{{UserID: 1, Username: "ann"}, {UserID: 2, FirstName: "Bob", LastName: "Ross"}}
	f.bot.HandleMessage(context.Background(), command("/nominate"))
	assert.Equal(t, f.tr.T("en", "nominate_result", "Bob Ross"), f.api.last(t).Text)
}

func TestCommandForAnotherBotIsIgnored(t *testing.T) {
	f := newFixture()
	f.bot.HandleMessage(context.Background(), command("/start@other_bot"))
	assert.Empty(t, f.api.sent)
}

func TestEventCommandStartsConversation(t *testing.T) {
	f := newFixture()
	f.store.langs[testChat] = "en"

	f.bot.HandleMessage(context.Background(), command("/event"))
	assert.True(t, f.events.Active(testChat))
	assert.Equal(t, f.tr.T("en", "event_name_prompt"), f.api.last(t).Text)

	f.bot.HandleMessage(context.Background(), message("Picnic"))
	assert.Empty(t, f.responder.reqs)
	assert.Equal(t, f.tr.T("en", "event_pick_day", f.tr.T("en", "event_label_date")), f.api.last(t).Text)

	f.bot.HandleMessage(context.Background(), command("/cancel@skibidi_bot"))
	assert.False(t, f.events.Active(testChat))
	assert.Equal(t, f.tr.T("en", "event_cancelled"), f.api.last(t).Text)
}

func TestUnknownCallbackIsAnswered(t *testing.T) {
	f := newFixture()
	f.bot.HandleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: testChat}},
		Data:    "something:else",
	})
	require.Len(t, f.api.requests, 1)
	cb := f.api.requests[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb1", cb.CallbackQueryID)
}

func TestHandleUpdateRecoversFromPanics(t *testing.T) {
	b := New(Options{AllowedChats: map[int64]struct{}{testChat: {}}})
	assert.NotPanics(t, func() {
		// no translator or API configured
		b.HandleUpdate(context.Background(), tgbotapi.Update{Message: command("/start")})
	})
}
