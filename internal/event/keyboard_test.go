package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackRoundTrip(t *testing.T) {
	data := encodeCallback("a1b2c3d4", stepMinute, "35")
	assert.True(t, IsCallback(data))
	assert.LessOrEqual(t, len(data), 64)

	cb, ok := decodeCallback(data)
	assert.True(t, ok)
	assert.Equal(t, callback{token: "a1b2c3d4", action: "min", value: "35"}, cb)

	cb, ok = decodeCallback(cancelCallback("a1b2c3d4"))
	assert.True(t, ok)
	assert.Equal(t, actionCancel, cb.action)
	assert.Empty(t, cb.value)
}

func TestDecodeCallbackRejectsForeignData(t *testing.T) {
	for _, data := range []string{"", "event", "event::day:1", "poll:abc:day:1", "queue_join:42"} {
		_, ok := decodeCallback(data)
		assert.False(t, ok, data)
	}
	assert.False(t, IsCallback("queue_join:42"))
}

func TestIsCancelCommand(t *testing.T) {
	assert.True(t, isCancelCommand("/cancel"))
	assert.True(t, isCancelCommand("  /CANCEL@skibidi_bot please"))
	assert.False(t, isCancelCommand("/cancellation"))
	assert.False(t, isCancelCommand("cancel"))
	assert.False(t, isCancelCommand(""))
}

func TestNewTokenIsEightHex(t *testing.T) {
	tok := newToken()
	assert.Len(t, tok, 8)
	assert.Regexp(t, `^[0-9a-f]{8}$`, tok)
	assert.NotEqual(t, tok, newToken())
}
