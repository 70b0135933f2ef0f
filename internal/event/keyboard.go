package event

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/i18n"
)

const (
	callbackPrefix = "event"
	actionCancel   = "cancel"
	closeCustom    = "custom"
)

// callback is a decoded event button payload.
type callback struct {
	token  string
	action string
	value  string
}

func encodeCallback(token string, action step, value string) string {
	return fmt.Sprintf("%s:%s:%s:%s", callbackPrefix, token, action, value)
}

func cancelCallback(token string) string {
	return fmt.Sprintf("%s:%s:%s", callbackPrefix, token, actionCancel)
}

// IsCallback reports whether data belongs to the event flow.
func IsCallback(data string) bool {
	return strings.HasPrefix(data, callbackPrefix+":")
}

func decodeCallback(data string) (callback, bool) {
	parts := strings.SplitN(data, ":", 4)
	if len(parts) < 3 || parts[0] != callbackPrefix || parts[1] == "" {
		return callback{}, false
	}
	cb := callback{token: parts[1], action: parts[2]}
	if len(parts) == 4 {
		cb.value = parts[3]
	}
	return cb, true
}

func button(label, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

// grid lays buttons out perRow per row and appends the cancel row.
func grid(buttons []tgbotapi.InlineKeyboardButton, perRow int, cancel tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(buttons); i += perRow {
		end := min(i+perRow, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[i:end]...))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(cancel))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

type keyboards struct {
	tr    i18n.Translator
	lang  string
	token string
}

func (k keyboards) cancel() tgbotapi.InlineKeyboardButton {
	return button(k.tr.T(k.lang, "event_button_cancel"), cancelCallback(k.token))
}

func (k keyboards) numbers(action step, from, to, stepBy, perRow int, label func(int) string) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for v := from; v <= to; v += stepBy {
		buttons = append(buttons, button(label(v), encodeCallback(k.token, action, strconv.Itoa(v))))
	}
	return grid(buttons, perRow, k.cancel())
}

func (k keyboards) days() tgbotapi.InlineKeyboardMarkup {
	return k.numbers(stepDay, 1, 31, 1, 7, strconv.Itoa)
}

func (k keyboards) months() tgbotapi.InlineKeyboardMarkup {
	return k.numbers(stepMonth, 1, 12, 1, 3, func(m int) string {
		return k.tr.T(k.lang, "event_month_"+strconv.Itoa(m))
	})
}

func (k keyboards) years(from int) tgbotapi.InlineKeyboardMarkup {
	return k.numbers(stepYear, from, from+3, 1, 4, strconv.Itoa)
}

func (k keyboards) hours() tgbotapi.InlineKeyboardMarkup {
	return k.numbers(stepHour, 0, 23, 1, 6, twoDigits)
}

func (k keyboards) minutes() tgbotapi.InlineKeyboardMarkup {
	return k.numbers(stepMinute, 0, 60-MinuteStep, MinuteStep, 6, twoDigits)
}

func (k keyboards) closeOptions() tgbotapi.InlineKeyboardMarkup {
	offset := func(h int, def bool) tgbotapi.InlineKeyboardButton {
		key := "event_close_hours"
		if def {
			key = "event_close_default"
		}
		return button(k.tr.T(k.lang, key, strconv.Itoa(h)), encodeCallback(k.token, stepClose, strconv.Itoa(h)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(offset(CloseOffsets[0], true), offset(CloseOffsets[1], false), offset(CloseOffsets[2], false)),
		tgbotapi.NewInlineKeyboardRow(offset(CloseOffsets[3], false), offset(CloseOffsets[4], false)),
		tgbotapi.NewInlineKeyboardRow(button(k.tr.T(k.lang, "event_button_custom_time"), encodeCallback(k.token, stepClose, closeCustom))),
		tgbotapi.NewInlineKeyboardRow(k.cancel()),
	)
}

func twoDigits(v int) string {
	return fmt.Sprintf("%02d", v)
}

func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
