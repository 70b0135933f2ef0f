package members

import (
	"strconv"
	"strings"
)

type ChatMemberRecord struct {
	UserID    int64
	FirstName string
	LastName  string
	Username  string
}

type ChatRecord struct {
	ChatID   int64
	Language string
}

// FullName joins first and last name, skipping empty parts.
func (m ChatMemberRecord) FullName() string {
	return strings.TrimSpace(strings.Join([]string{m.FirstName, m.LastName}, " "))
}

// Label prefers @username, then the full name, then fallback.
func (m ChatMemberRecord) Label(fallback string) string {
	if m.Username != "" {
		return "@" + m.Username
	}
	if name := m.FullName(); name != "" {
		return name
	}
	return fallback
}

// DisplayName prefers the full name, then @username, then "user <id>".
func (m ChatMemberRecord) DisplayName() string {
	if name := m.FullName(); name != "" {
		return name
	}
	if m.Username != "" {
		return "@" + m.Username
	}
	return "user " + strconv.FormatInt(m.UserID, 10)
}
