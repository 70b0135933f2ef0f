package llm

import (
	"bytes"
	"embed"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"text/template"
)

//go:embed prompts/system.tmpl
var promptFS embed.FS

var systemTemplate = template.Must(
	template.New("system.tmpl").
		Option("missingkey=error").
		Funcs(template.FuncMap{"quoteJoin": quoteJoin}).
		ParseFS(promptFS, "prompts/system.tmpl"),
)

// SystemPrompt is the rendered instruction block sent ahead of every user input.
var SystemPrompt = mustRenderSystemPrompt()

func mustRenderSystemPrompt() string {
	var b bytes.Buffer
	if err := systemTemplate.Execute(&b, struct{ Commands []Command }{Commands}); err != nil {
		panic(err)
	}
	return strings.TrimSpace(b.String())
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}

// BuildPrompt appends the user input to the system prompt.
func BuildPrompt(userInput string) string {
	return SystemPrompt + "\n\nUser message:\n" + userInput
}

func buildChatInput(req ChatRequest) string {
	return req.Text
}

const variationAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// buildCronInput renders a cron request. The variation hint keeps repeated
// runs of the same job from producing identical completions.
func buildCronInput(req CronRequest, rnd *rand.Rand) string {
	payload := "{}"
	if req.Payload != nil {
		if data, err := json.MarshalIndent(req.Payload, "", "  "); err == nil {
			payload = string(data)
		}
	}

	variation := make([]byte, 6)
	for i := range variation {
		variation[i] = variationAlphabet[rnd.IntN(len(variationAlphabet))]
	}

	return strings.Join([]string{
		"MODE: cron",
		"command: " + req.CommandID,
		"variation: " + string(variation),
		"message:",
		payload,
	}, "\n")
}
