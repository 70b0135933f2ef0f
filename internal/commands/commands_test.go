package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/members"
)

type fakeStore struct {
	chats     map[int64]string
	members   map[int64][]members.ChatMemberRecord
	birthdays map[int64]string
	err       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chats:     map[int64]string{},
		members:   map[int64][]members.ChatMemberRecord{},
		birthdays: map[int64]string{},
	}
}

func (f *fakeStore) EnsureChat(_ context.Context, chatID int64, lang string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.chats[chatID]; !ok {
		f.chats[chatID] = lang
	}
	return nil
}

func (f *fakeStore) UpsertMember(_ context.Context, chatID int64, u tgbotapi.User) error {
	if f.err != nil {
		return f.err
	}
	rec := members.ChatMemberRecord{UserID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.UserName}
	list := f.members[chatID]
	for i, m := range list {
		if m.UserID == u.ID {
			list[i] = rec
			return nil
		}
	}
	f.members[chatID] = append(list, rec)
	return nil
}

func (f *fakeStore) SetBirthday(_ context.Context, _ int64, userID int64, birthday string) error {
	if f.err != nil {
		return f.err
	}
	f.birthdays[userID] = birthday
	return nil
}

func (f *fakeStore) ListMembers(_ context.Context, chatID int64) ([]members.ChatMemberRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[chatID], nil
}

var requester = tgbotapi.User{ID: 1, FirstName: "Req", UserName: "req"}

func TestExecuteRegister(t *testing.T) {
	store := newFakeStore()
	out := Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandRegister, ResponseText: "welcome"},
		Context{ChatID: 10, User: requester, Store: store})

	assert.Equal(t, "welcome", out)
	assert.Equal(t, "en", store.chats[10])
	require.Len(t, store.members[10], 1)
	assert.Equal(t, "req", store.members[10][0].Username)
}

func TestExecuteRegisterStorageErrorStillReplies(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("db down")
	out := Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandRegister, ResponseText: "hey"},
		Context{ChatID: 10, User: requester, Store: store})
	assert.Equal(t, "hey", out)
}

func TestParseBirthday(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1991-12-24", "1991-12-24", true},
		{"24/12/1991", "1991-12-24", true},
		{" 2000-02-29 ", "2000-02-29", true},
		{"1991-02-30", "", false},
		{"31/04/1991", "", false},
		{"1999-02-29", "", false},
		{"12/24/1991", "", false},
		{"1991-1-2", "", false},
		{"tomorrow", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseBirthday(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExecuteBirthday(t *testing.T) {
	store := newFakeStore()
	reply := llm.Reply{
		InferredCommand: llm.CommandBirthday,
		ResponseText:    "noted!",
		Extra:           map[string]any{"birthday": "24/12/1991"},
	}
	out := Execute(context.Background(), reply, Context{ChatID: 10, User: requester, Store: store})

	assert.Equal(t, "noted!", out)
	assert.Equal(t, "1991-12-24", store.birthdays[requester.ID])
}

func TestExecuteBirthdayInvalidDateSkipsWrite(t *testing.T) {
	for _, v := range []any{"1991-02-30", "31/04/1991", 19911224, nil} {
		store := newFakeStore()
		reply := llm.Reply{
			InferredCommand: llm.CommandBirthday,
			ResponseText:    "hmm",
			Extra:           map[string]any{"birthday": v},
		}
		out := Execute(context.Background(), reply, Context{ChatID: 10, User: requester, Store: store})
		assert.Equal(t, "hmm", out)
		assert.Empty(t, store.birthdays)
	}
}

func TestExecuteBirthdayStorageError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("db down")
	reply := llm.Reply{
		InferredCommand: llm.CommandBirthday,
		ResponseText:    "saved",
		Extra:           map[string]any{"birthday": "1991-12-24"},
	}
	assert.Equal(t, "saved", Execute(context.Background(), reply, Context{ChatID: 10, User: requester, Store: store}))
}

func seedMembers(store *fakeStore) {
	store.members[10] = []members.ChatMemberRecord{
		{UserID: 1, Username: "req"},
		{UserID: 2, Username: "bob"},
		{UserID: 3, FirstName: "Carol", LastName: "King"},
		{UserID: 4},
	}
}

func TestExecuteNominateReplacesEveryPlaceholder(t *testing.T) {
	store := newFakeStore()
	seedMembers(store)
	reply := llm.Reply{InferredCommand: llm.CommandNominate, ResponseText: "[random_user] wins! Go [RANDOM_USER]!"}

	out := Execute(context.Background(), reply, Context{
		ChatID: 10, User: requester, Store: store,
		IntN: func(int) int { return 0 },
	})
	assert.Equal(t, "@bob wins! Go @bob!", out)
}

func TestExecuteNominateNeverPicksRequester(t *testing.T) {
	store := newFakeStore()
	seedMembers(store)
	valid := map[string]bool{"@bob": true, "Carol King": true, "someone": true}

	for i := 0; i < 50; i++ {
		out := Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandNominate, ResponseText: "[random_user]"},
			Context{ChatID: 10, User: requester, Store: store})
		assert.False(t, strings.Contains(strings.ToLower(out), "[random_user]"))
		assert.True(t, valid[out], "unexpected label %q", out)
	}
}

func TestExecuteNominateEmptyTextBecomesLabel(t *testing.T) {
	store := newFakeStore()
	seedMembers(store)
	out := Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandNominate},
		Context{ChatID: 10, User: requester, Store: store, IntN: func(int) int { return 1 }})
	assert.Equal(t, "Carol King", out)
}

func TestExecuteNominateFallbacks(t *testing.T) {
	reply := llm.Reply{InferredCommand: llm.CommandNominate, ResponseText: "Pick: [random_user]"}

	assert.Equal(t, "Pick: someone", Execute(context.Background(), reply, Context{ChatID: 10, User: requester}))

	onlyMe := newFakeStore()
	onlyMe.members[10] = []members.ChatMemberRecord{{UserID: 1, Username: "req"}}
	assert.Equal(t, "Pick: someone", Execute(context.Background(), reply, Context{ChatID: 10, User: requester, Store: onlyMe}))

	broken := newFakeStore()
	broken.err = errors.New("db down")
	assert.Equal(t, "Pick: someone", Execute(context.Background(), reply, Context{ChatID: 10, User: requester, Store: broken}))
}

func TestExecuteNominateKeepsTextWithoutPlaceholder(t *testing.T) {
	store := newFakeStore()
	seedMembers(store)
	out := Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandNominate, ResponseText: "I pick Dave"},
		Context{ChatID: 10, User: requester, Store: store})
	assert.Equal(t, "I pick Dave", out)
}

func TestExecuteUnknown(t *testing.T) {
	assert.Equal(t, "just chatting", Execute(context.Background(),
		llm.Reply{InferredCommand: llm.CommandUnknown, ResponseText: "just chatting"}, Context{}))
	assert.Equal(t, "", Execute(context.Background(), llm.Reply{InferredCommand: llm.CommandUnknown}, Context{}))
	assert.Equal(t, "odd", Execute(context.Background(),
		llm.Reply{InferredCommand: llm.InferredCommand("bogus"), ResponseText: "odd"}, Context{}))
}
