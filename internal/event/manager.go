// Package event runs the /event conversation: it collects an event name,
// date, time and poll close time from the creator and then posts a Yes/No
// poll.
package event

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/metrics"
	"github.com/fedesecco/skibidi-bot/internal/polls"
	"github.com/fedesecco/skibidi-bot/internal/utils"
)

// ErrInProgress is returned by Start when the chat already has a conversation.
var ErrInProgress = errors.New("event: conversation already in progress")

// PollOptions are the answers of every event poll.
var PollOptions = []string{"Yes", "No"}

// Sender is the Telegram surface the conversation needs. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// PollPublisher posts the final poll.
type PollPublisher interface {
	Publish(ctx context.Context, req polls.PublishRequest) (polls.EventPollDTO, error)
}

// Options configures a Manager. Sender, Publisher and Translator are required.
type Options struct {
	Sender          Sender
	Publisher       PollPublisher
	Translator      i18n.Translator
	Location        *time.Location
	Now             func() time.Time
	AnonymousPolls  bool
	DefaultLanguage string
	Logger          logger.Logger
	Metrics         *metrics.Manager
}

// Manager owns the live conversations, at most one per chat.
type Manager struct {
	sender    Sender
	publisher PollPublisher
	tr        i18n.Translator
	loc       *time.Location
	now       func() time.Time
	anonymous bool
	lang      string
	log       logger.Logger
	metrics   *metrics.Manager

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		sender:    opts.Sender,
		publisher: opts.Publisher,
		tr:        opts.Translator,
		loc:       opts.Location,
		now:       opts.Now,
		anonymous: opts.AnonymousPolls,
		lang:      opts.DefaultLanguage,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		sessions:  make(map[int64]*session),
	}
	if m.loc == nil {
		m.loc = time.UTC
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.lang == "" {
		m.lang = i18n.DefaultLanguage
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	return m
}

// Active reports whether chatID has a live conversation.
func (m *Manager) Active(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[chatID]
	return ok
}

// Start opens a conversation for the sender of msg and asks for the event name.
func (m *Manager) Start(ctx context.Context, msg *tgbotapi.Message, lang string) error {
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return nil
	}
	if lang == "" {
		lang = m.lang
	}
	chatID := msg.Chat.ID

	m.mu.Lock()
	if _, busy := m.sessions[chatID]; busy {
		m.mu.Unlock()
		m.reply(ctx, chatID, msg.MessageID, m.tr.T(lang, "event_in_progress"))
		return ErrInProgress
	}
	s := &session{
		chatID:    chatID,
		creatorID: msg.From.ID,
		token:     newToken(),
		lang:      lang,
		step:      stepName,
		phase:     phaseEvent,
	}
	m.sessions[chatID] = s
	m.mu.Unlock()

	m.log.Info(ctx, "event conversation started",
		logger.Int64("chat_id", chatID),
		logger.Int64("creator_id", s.creatorID),
		logger.String("token", s.token),
	)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.reply(ctx, chatID, msg.MessageID, m.tr.T(lang, "event_name_prompt"))
	return nil
}

// HandleMessage feeds a text message to the chat's conversation. It reports
// whether the message was consumed; messages from anyone but the creator,
// and creator messages while buttons are expected, are not.
func (m *Manager) HandleMessage(ctx context.Context, msg *tgbotapi.Message) bool {
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return false
	}
	s := m.session(msg.Chat.ID)
	if s == nil || msg.From.ID != s.creatorID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}
	if isCancelCommand(msg.Text) {
		if s.promptMsg != 0 {
			m.clearKeyboard(ctx, s.chatID, s.promptMsg)
		}
		m.cancel(ctx, s)
		return true
	}
	if s.step != stepName {
		return false
	}
	if msg.Text == "" {
		m.reply(ctx, s.chatID, msg.MessageID, m.tr.T(s.lang, "event_text_required"))
		return true
	}
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		m.reply(ctx, s.chatID, msg.MessageID, m.tr.T(s.lang, "event_name_invalid"))
		return true
	}
	s.name = name
	m.restartDate(ctx, s)
	return true
}

// HandleCallback processes a press on an event button. It reports whether
// the callback belonged to the event flow.
func (m *Manager) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	if cq == nil || !IsCallback(cq.Data) {
		return false
	}
	if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
		m.answer(ctx, cq.ID, "")
		return true
	}
	chatID, msgID := cq.Message.Chat.ID, cq.Message.MessageID

	data, ok := decodeCallback(cq.Data)
	s := m.session(chatID)
	if !ok || s == nil || s.token != data.token {
		m.stale(ctx, cq, m.lang)
		return true
	}
	if cq.From.ID != s.creatorID {
		m.answer(ctx, cq.ID, m.tr.T(s.lang, "event_buttons_creator_only"))
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		m.stale(ctx, cq, s.lang)
		return true
	}
	if data.action == actionCancel {
		m.answer(ctx, cq.ID, "")
		m.clearKeyboard(ctx, chatID, msgID)
		m.cancel(ctx, s)
		return true
	}
	if step(data.action) != s.step || msgID != s.promptMsg {
		m.stale(ctx, cq, s.lang)
		return true
	}

	m.answer(ctx, cq.ID, "")
	m.clearKeyboard(ctx, chatID, msgID)

	if s.step == stepClose {
		m.handleClose(ctx, s, data.value)
		return true
	}
	v, ok := m.parseValue(s, data.value)
	if !ok {
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_buttons_only"))
		m.prompt(ctx, s)
		return true
	}
	m.advance(ctx, s, v)
	return true
}

// parseValue validates a numeric button payload for the current step.
func (m *Manager) parseValue(s *session, raw string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	switch s.step {
	case stepDay:
		return v, v >= 1 && v <= 31
	case stepMonth:
		return v, v >= 1 && v <= 12
	case stepYear:
		return v, v >= s.yearFrom && v <= s.yearFrom+3
	case stepHour:
		return v, v >= 0 && v <= 23
	case stepMinute:
		return v, v >= 0 && v < 60 && v%MinuteStep == 0
	}
	return 0, false
}

func (m *Manager) advance(ctx context.Context, s *session, v int) {
	switch s.step {
	case stepDay:
		s.date.Day = v
		s.step = stepMonth
	case stepMonth:
		s.date.Month = v
		s.step = stepYear
	case stepYear:
		s.date.Year = v
		if !ValidDate(s.date) {
			m.send(ctx, s.chatID, m.tr.T(s.lang, "event_invalid_date"))
			m.restartDate(ctx, s)
			return
		}
		s.step = stepHour
	case stepHour:
		s.clock.Hour = v
		s.step = stepMinute
	case stepMinute:
		s.clock.Minute = v
		m.timeCollected(ctx, s)
		return
	}
	m.prompt(ctx, s)
}

// timeCollected validates the combined date and time of the current phase.
func (m *Manager) timeCollected(ctx context.Context, s *session) {
	at, ok := Combine(s.date, s.clock, m.loc)
	if !ok {
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_invalid_date"))
		m.restartDate(ctx, s)
		return
	}
	earliest := m.now().Add(MinLead)

	if s.phase == phaseEvent {
		if !at.After(earliest) {
			m.send(ctx, s.chatID, m.tr.T(s.lang, "event_time_too_soon"))
			m.restartDate(ctx, s)
			return
		}
		s.eventAt = at
		s.step = stepClose
		m.prompt(ctx, s)
		return
	}

	switch {
	case !at.After(earliest):
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_close_time_future"))
		m.restartDate(ctx, s)
	case !at.Before(s.eventAt):
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_close_time_before_event"))
		m.restartDate(ctx, s)
	default:
		m.finalize(ctx, s, at)
	}
}

func (m *Manager) handleClose(ctx context.Context, s *session, value string) {
	if value == closeCustom {
		s.phase = phaseClose
		m.restartDate(ctx, s)
		return
	}
	hours, err := strconv.Atoi(value)
	if err != nil || !isCloseOffset(hours) {
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_buttons_only"))
		m.prompt(ctx, s)
		return
	}
	closeAt := s.eventAt.Add(-time.Duration(hours) * time.Hour)
	if !closeAt.After(m.now().Add(MinLead)) {
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_close_too_soon"))
		m.prompt(ctx, s)
		return
	}
	m.finalize(ctx, s, closeAt)
}

func isCloseOffset(h int) bool {
	for _, o := range CloseOffsets {
		if o == h {
			return true
		}
	}
	return false
}

// restartDate resets the date and time parts of the current phase and asks
// for the day again.
func (m *Manager) restartDate(ctx context.Context, s *session) {
	s.date = DateParts{}
	s.clock = TimeParts{}
	s.step = stepDay
	m.prompt(ctx, s)
}

// prompt sends the question and keyboard for the current step.
func (m *Manager) prompt(ctx context.Context, s *session) {
	k := keyboards{tr: m.tr, lang: s.lang, token: s.token}
	dateLabel, timeLabel := "event_label_date", "event_label_time"
	if s.phase == phaseClose {
		dateLabel, timeLabel = "event_label_close_date", "event_label_close_time"
	}
	dl, tl := m.tr.T(s.lang, dateLabel), m.tr.T(s.lang, timeLabel)

	var (
		text     string
		keyboard tgbotapi.InlineKeyboardMarkup
	)
	switch s.step {
	case stepDay:
		text, keyboard = m.tr.T(s.lang, "event_pick_day", dl), k.days()
	case stepMonth:
		text, keyboard = m.tr.T(s.lang, "event_pick_month", dl), k.months()
	case stepYear:
		s.yearFrom = m.now().In(m.loc).Year()
		text, keyboard = m.tr.T(s.lang, "event_pick_year", dl), k.years(s.yearFrom)
	case stepHour:
		text, keyboard = m.tr.T(s.lang, "event_pick_hour", tl), k.hours()
	case stepMinute:
		text, keyboard = m.tr.T(s.lang, "event_pick_minute", tl, strconv.Itoa(MinuteStep)), k.minutes()
	case stepClose:
		text, keyboard = m.tr.T(s.lang, "event_close_prompt"), k.closeOptions()
	default:
		return
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ReplyMarkup = keyboard
	sent, err := m.sender.Send(msg)
	if err != nil {
		m.log.Error(ctx, "send event prompt failed",
			logger.Int64("chat_id", s.chatID),
			logger.String("step", string(s.step)),
			logger.Error(err),
		)
		return
	}
	s.promptMsg = sent.MessageID
}

func (m *Manager) finalize(ctx context.Context, s *session, closeAt time.Time) {
	m.end(s)

	date := utils.FormatDate(s.eventAt, m.loc)
	clock := utils.FormatTime(s.eventAt, m.loc)
	summary := m.tr.T(s.lang, "event_summary",
		s.name, date, clock,
		utils.FormatDateTime(closeAt, m.loc),
		formatHours(s.eventAt.Sub(closeAt)),
	)
	m.send(ctx, s.chatID, summary)

	req := polls.PublishRequest{
		ChatID:    s.chatID,
		CreatorID: s.creatorID,
		Question:  m.pollQuestion(s.lang, s.name, date, clock),
		Options:   PollOptions,
		Anonymous: m.anonymous,
		CloseAt:   closeAt,
	}
	dto, err := m.publisher.Publish(ctx, req)
	if err != nil {
		m.log.Error(ctx, "publish event poll failed", logger.Int64("chat_id", s.chatID), logger.Error(err))
		m.send(ctx, s.chatID, m.tr.T(s.lang, "event_poll_failed"))
		return
	}
	m.metrics.IncEventCreated()
	m.log.Info(ctx, "event poll published",
		logger.Int64("chat_id", s.chatID),
		logger.String("poll_id", dto.PollID),
		logger.String("closes_at", closeAt.UTC().Format(time.RFC3339)),
	)
}

func (m *Manager) pollQuestion(lang, name, date, clock string) string {
	q := m.tr.T(lang, "event_poll_question", truncate(name, pollNameLimit), date, clock)
	if len([]rune(q)) > pollQuestionLimit {
		q = m.tr.T(lang, "event_poll_question_short", truncate(name, pollShortName))
	}
	return truncate(q, pollQuestionLimit)
}

func (m *Manager) cancel(ctx context.Context, s *session) {
	m.end(s)
	m.metrics.IncEventCancelled()
	m.send(ctx, s.chatID, m.tr.T(s.lang, "event_cancelled"))
	m.log.Info(ctx, "event conversation cancelled", logger.Int64("chat_id", s.chatID), logger.String("step", string(s.step)))
}

// end marks s finished and drops it from the chat map. Callers hold s.mu.
func (m *Manager) end(s *session) {
	s.done = true
	m.mu.Lock()
	if m.sessions[s.chatID] == s {
		delete(m.sessions, s.chatID)
	}
	m.mu.Unlock()
}

func (m *Manager) session(chatID int64) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID]
}

func (m *Manager) stale(ctx context.Context, cq *tgbotapi.CallbackQuery, lang string) {
	m.answer(ctx, cq.ID, m.tr.T(lang, "event_buttons_current"))
	if cq.Message != nil && cq.Message.Chat != nil {
		m.clearKeyboard(ctx, cq.Message.Chat.ID, cq.Message.MessageID)
	}
}

func (m *Manager) send(ctx context.Context, chatID int64, text string) {
	if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		m.log.Error(ctx, "send message failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func (m *Manager) reply(ctx context.Context, chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := m.sender.Send(msg); err != nil {
		m.log.Error(ctx, "send reply failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func (m *Manager) answer(ctx context.Context, callbackID, text string) {
	if _, err := m.sender.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		m.log.Warn(ctx, "answer callback failed", logger.Error(err))
	}
}

func (m *Manager) clearKeyboard(ctx context.Context, chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, emptyKeyboard())
	if _, err := m.sender.Request(edit); err != nil {
		m.log.Warn(ctx, "clear keyboard failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

// isCancelCommand matches "/cancel" and "/cancel@botname".
func isCancelCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	return cmd == "/cancel"
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
