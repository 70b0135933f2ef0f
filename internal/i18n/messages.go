package i18n

// messages maps language -> key -> printf-style format. All arguments are %s.
var messages = map[string]map[string]string{
	English: {
		"welcome":                "Hi! Tag me with anything and I'll answer. Use /event to schedule an event poll and /language to switch language.",
		"language_help":          "Usage: /language <en|ru>",
		"language_invalid":       "I don't speak that one. Try: en, ru.",
		"language_set":           "Language set to %s.",
		"nominate_no_candidates": "Nobody to nominate here yet.",
		"nominate_result":        "I nominate %s!",
		"loser_of_day":           "Today's loser of the day is %s.",
		"ai_empty_reply":         "Sorry, I couldn't generate a response for that.",
		"ai_failure":             "Sorry, I ran into a problem while generating that.",

		"event_in_progress":             "An event is already being created in this chat. Finish it or send /cancel.",
		"event_name_prompt":             "What's the name of the event? Send /cancel to stop.",
		"event_name_invalid":            "The name can't be empty. Try again:",
		"event_text_required":           "Please send the answer as text.",
		"event_cancelled":               "Event creation cancelled.",
		"event_label_date":              "event date",
		"event_label_time":              "event time",
		"event_label_close_date":        "poll close date",
		"event_label_close_time":        "poll close time",
		"event_pick_day":                "Pick the day (%s):",
		"event_pick_month":              "Pick the month (%s):",
		"event_pick_year":               "Pick the year (%s):",
		"event_pick_hour":               "Pick the hour (%s):",
		"event_pick_minute":             "Pick the minute (%s, %s-minute steps):",
		"event_invalid_date":            "That date doesn't exist. Let's pick it again.",
		"event_time_too_soon":           "The event must be at least a minute in the future. Let's pick the date again.",
		"event_close_prompt":            "When should the poll close?",
		"event_close_default":           "%sh before (default)",
		"event_close_hours":             "%sh before",
		"event_button_custom_time":      "Custom date and time",
		"event_button_cancel":           "Cancel",
		"event_close_too_soon":          "That close time is already too close. Pick another one.",
		"event_close_time_future":       "The poll must close at least a minute from now. Let's pick it again.",
		"event_close_time_before_event": "The poll must close before the event starts. Let's pick it again.",
		"event_buttons_only":            "Please use the buttons.",
		"event_buttons_current":         "These buttons are no longer active.",
		"event_buttons_creator_only":    "Only the person creating the event can use these buttons.",
		"event_summary":                 "Event: %s\nDate: %s\nTime: %s\nPoll closes: %s (%s before the event)",
		"event_poll_question":           "%s on %s at %s: are you coming?",
		"event_poll_question_short":     "%s: are you coming?",
		"event_poll_failed":             "I couldn't post the poll. Please try again later.",

		"event_month_1":  "Jan",
		"event_month_2":  "Feb",
		"event_month_3":  "Mar",
		"event_month_4":  "Apr",
		"event_month_5":  "May",
		"event_month_6":  "Jun",
		"event_month_7":  "Jul",
		"event_month_8":  "Aug",
		"event_month_9":  "Sep",
		"event_month_10": "Oct",
		"event_month_11": "Nov",
		"event_month_12": "Dec",
	},
	Russian: {
		"welcome":                "Привет! Отметь меня в сообщении, и я отвечу. /event создаёт опрос о событии, /language меняет язык.",
		"language_help":          "Использование: /language <en|ru>",
		"language_invalid":       "Такого языка я не знаю. Доступны: en, ru.",
		"language_set":           "Язык изменён: %s.",
		"nominate_no_candidates": "Пока некого выбрать.",
		"nominate_result":        "Выбираю %s!",
		"loser_of_day":           "Лузер дня сегодня: %s.",
		"ai_empty_reply":         "Извините, не получилось придумать ответ.",
		"ai_failure":             "Извините, что-то пошло не так при генерации ответа.",

		"event_in_progress":             "В этом чате уже создаётся событие. Завершите его или отправьте /cancel.",
		"event_name_prompt":             "Как называется событие? Отправьте /cancel для отмены.",
		"event_name_invalid":            "Название не может быть пустым. Попробуйте ещё раз:",
		"event_text_required":           "Пожалуйста, ответьте текстом.",
		"event_cancelled":               "Создание события отменено.",
		"event_label_date":              "дата события",
		"event_label_time":              "время события",
		"event_label_close_date":        "дата закрытия опроса",
		"event_label_close_time":        "время закрытия опроса",
		"event_pick_day":                "Выберите день (%s):",
		"event_pick_month":              "Выберите месяц (%s):",
		"event_pick_year":               "Выберите год (%s):",
		"event_pick_hour":               "Выберите час (%s):",
		"event_pick_minute":             "Выберите минуты (%s, шаг %s мин.):",
		"event_invalid_date":            "Такой даты не существует. Выберем заново.",
		"event_time_too_soon":           "Событие должно быть хотя бы через минуту. Выберем дату заново.",
		"event_close_prompt":            "Когда закрыть опрос?",
		"event_close_default":           "За %s ч. (по умолчанию)",
		"event_close_hours":             "За %s ч.",
		"event_button_custom_time":      "Своя дата и время",
		"event_button_cancel":           "Отмена",
		"event_close_too_soon":          "Это время закрытия уже слишком близко. Выберите другое.",
		"event_close_time_future":       "Опрос должен закрыться не раньше чем через минуту. Выберем заново.",
		"event_close_time_before_event": "Опрос должен закрыться до начала события. Выберем заново.",
		"event_buttons_only":            "Пожалуйста, используйте кнопки.",
		"event_buttons_current":         "Эти кнопки больше не активны.",
		"event_buttons_creator_only":    "Кнопками может пользоваться только создатель события.",
		"event_summary":                 "Событие: %s\nДата: %s\nВремя: %s\nОпрос закроется: %s (за %s до события)",
		"event_poll_question":           "%s, %s в %s: идёте?",
		"event_poll_question_short":     "%s: идёте?",
		"event_poll_failed":             "Не удалось отправить опрос. Попробуйте позже.",

		"event_month_1":  "Янв",
		"event_month_2":  "Фев",
		"event_month_3":  "Мар",
		"event_month_4":  "Апр",
		"event_month_5":  "Май",
		"event_month_6":  "Июн",
		"event_month_7":  "Июл",
		"event_month_8":  "Авг",
		"event_month_9":  "Сен",
		"event_month_10": "Окт",
		"event_month_11": "Ноя",
		"event_month_12": "Дек",
	},
}
