package event

import (
	"sync"
	"time"
)

// MinLead is how far in the future event and close times must be when fixed.
const MinLead = 60 * time.Second

// MinuteStep is the granularity of the minute keyboard.
const MinuteStep = 5

// CloseOffsets are the hour-before-event choices, in keyboard order.
// The first one is the default.
var CloseOffsets = []int{24, 12, 6, 48, 72}

// DateParts is a calendar date collected button by button.
type DateParts struct {
	Year  int
	Month int
	Day   int
}

// TimeParts is a wall-clock time collected button by button.
type TimeParts struct {
	Hour   int
	Minute int
}

// Combine builds the instant in loc. It reports false when the date does
// not exist in the calendar, for example 30 February.
func Combine(d DateParts, t TimeParts, loc *time.Location) (time.Time, bool) {
	ts := time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, 0, 0, loc)
	if ts.Year() != d.Year || int(ts.Month()) != d.Month || ts.Day() != d.Day {
		return time.Time{}, false
	}
	return ts, true
}

// ValidDate reports whether d is a real calendar date.
func ValidDate(d DateParts) bool {
	_, ok := Combine(d, TimeParts{}, time.UTC)
	return ok
}

type step string

const (
	stepName   step = "name"
	stepDay    step = "day"
	stepMonth  step = "month"
	stepYear   step = "year"
	stepHour   step = "hour"
	stepMinute step = "min"
	stepClose  step = "close"
)

// phase tells whether the date and time steps collect the event time or a
// custom poll close time.
type phase int

const (
	phaseEvent phase = iota
	phaseClose
)

// session is one chat's in-flight conversation. It is never persisted.
type session struct {
	mu sync.Mutex

	chatID    int64
	creatorID int64
	token     string
	lang      string

	step      step
	phase     phase
	name      string
	date      DateParts
	clock     TimeParts
	yearFrom  int
	eventAt   time.Time
	done      bool
	promptMsg int
}
