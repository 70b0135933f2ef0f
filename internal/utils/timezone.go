package utils

import (
	"fmt"
	"strings"
	"time"
)

// Display layouts used in chat messages.
const (
	DateLayout     = "02.01.2006"
	TimeLayout     = "15:04"
	DateTimeLayout = "02.01.2006 15:04"
)

// LoadLocation resolves an IANA zone name. An empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utc") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// FormatDate formats t as DD.MM.YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(DateLayout)
}

// FormatTime formats t as HH:MM in loc.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(TimeLayout)
}

// FormatDateTime formats t as "DD.MM.YYYY HH:MM" in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(DateTimeLayout)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
