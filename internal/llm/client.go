package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// Supported providers.
const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Completer sends a rendered prompt to a hosted model and returns its raw text.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Client wraps Genkit for completion requests.
type Client struct {
	genkit *genkit.Genkit
	opts   []ai.GenerateOption
	model  string
}

// NewClient creates a Genkit client for the given provider and model.
func NewClient(ctx context.Context, provider, apiKey, model string) (*Client, error) {
	switch provider {
	case ProviderOpenAI, "":
		if model == "" {
			model = "gpt-4o-mini"
		}
		oai := &openai.OpenAI{APIKey: apiKey}
		g := genkit.Init(ctx, genkit.WithPlugins(oai))
		return &Client{
			genkit: g,
			opts:   []ai.GenerateOption{ai.WithModel(oai.Model(g, model))},
			model:  model,
		}, nil
	case ProviderGoogleAI:
		if model == "" {
			model = "gemini-2.5-flash"
		}
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}))
		return &Client{
			genkit: g,
			opts:   []ai.GenerateOption{ai.WithModelName("googleai/" + model)},
			model:  model,
		}, nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", provider)
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateCompletion implements Completer. It does not retry.
func (c *Client) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	opts := append([]ai.GenerateOption{ai.WithPrompt(prompt)}, c.opts...)
	resp, err := genkit.Generate(ctx, c.genkit, opts...)
	if err != nil {
		return "", fmt.Errorf("LLM request failed for %s: %w", c.model, err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
