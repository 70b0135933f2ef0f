package event

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "привет ...", truncate("привет мир и все", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "24h", formatHours(24*time.Hour))
	assert.Equal(t, "6.5h", formatHours(6*time.Hour+30*time.Minute))
	assert.Equal(t, "0.08h", formatHours(5*time.Minute))
	assert.Equal(t, "1.33h", formatHours(80*time.Minute))
}

func TestCombineRejectsMissingDates(t *testing.T) {
	_, ok := Combine(DateParts{Year: 2026, Month: 2, Day: 30}, TimeParts{}, time.UTC)
	assert.False(t, ok)
	assert.True(t, ValidDate(DateParts{Year: 2028, Month: 2, Day: 29}))
	assert.False(t, ValidDate(DateParts{Year: 2026, Month: 4, Day: 31}))

	ts, ok := Combine(DateParts{Year: 2026, Month: 6, Day: 10}, TimeParts{Hour: 18, Minute: 30}, time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.June, 10, 18, 30, 0, 0, time.UTC), ts)
}

// verboseTranslator renders an oversized long question to force the short one.
type verboseTranslator struct{}

func (verboseTranslator) T(_, key string, args ...any) string {
	switch key {
	case "event_poll_question":
		return fmt.Sprintf("%s %s", strings.Repeat("long ", 80), fmt.Sprint(args...))
	case "event_poll_question_short":
		return fmt.Sprintf("%s?", args...)
	}
	return key
}

func TestPollQuestionFallsBackToShortForm(t *testing.T) {
	m := NewManager(Options{Translator: verboseTranslator{}})
	name := strings.Repeat("n", 200)

	q := m.pollQuestion(i18n.English, name, "10.06.2026", "18:30")
	assert.Equal(t, strings.Repeat("n", 57)+"...?", q)
}

func TestPollQuestionTruncatesName(t *testing.T) {
	m := NewManager(Options{Translator: i18n.MustNew()})
	name := strings.Repeat("я", 150)

	q := m.pollQuestion(i18n.English, name, "10.06.2026", "18:30")
	assert.LessOrEqual(t, utf8.RuneCountInString(q), pollQuestionLimit)
	assert.True(t, strings.HasPrefix(q, strings.Repeat("я", 97)+"... on 10.06.2026"))
}
