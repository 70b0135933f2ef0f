package llm

import "strings"

// InferredCommand is the closed set of intents the model may assign to a message.
type InferredCommand string

const (
	CommandRegister InferredCommand = "register"
	CommandBirthday InferredCommand = "birthday"
	CommandNominate InferredCommand = "nominate"
	CommandUnknown  InferredCommand = "unknown"
)

// ParseInferredCommand normalizes a raw label; anything outside the closed set is CommandUnknown.
func ParseInferredCommand(raw string) InferredCommand {
	c := InferredCommand(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Commands {
		if known.ID == c {
			return c
		}
	}
	return CommandUnknown
}

// Reply is a parsed model completion.
type Reply struct {
	InferredCommand InferredCommand
	ResponseText    string
	// Extra holds the unknown, command-specific fields of the completion
	// (e.g. "birthday" for CommandBirthday). Values are decoded JSON;
	// numbers are json.Number.
	Extra map[string]any
}

// StringField returns Extra[key] when it is a string.
func (r Reply) StringField(key string) (string, bool) {
	v, ok := r.Extra[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ChatRequest is a chat message the bot was mentioned in.
type ChatRequest struct {
	Text        string
	ChatID      int64
	ChatTitle   string
	UserID      int64
	UserName    string
	BotUsername string
}

// CronRequest asks the model to write a message for a scheduled job.
type CronRequest struct {
	CommandID string
	Payload   any
}
