package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatMemberRecordNames(t *testing.T) {
	full := ChatMemberRecord{UserID: 1, FirstName: "Ada", LastName: "Lovelace", Username: "ada"}
	first := ChatMemberRecord{UserID: 2, FirstName: "Bob"}
	handle := ChatMemberRecord{UserID: 3, Username: "carol"}
	empty := ChatMemberRecord{UserID: 4}

	assert.Equal(t, "@ada", full.Label("someone"))
	assert.Equal(t, "Bob", first.Label("someone"))
	assert.Equal(t, "someone", empty.Label("someone"))

	assert.Equal(t, "Ada Lovelace", full.DisplayName())
	assert.Equal(t, "@carol", handle.DisplayName())
	assert.Equal(t, "user 4", empty.DisplayName())
}
