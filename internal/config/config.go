// Package config defines the bot's configuration and how it is loaded.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Update modes.
const (
	ModeLongPolling = "long-polling"
	ModeWebhook     = "webhook"
)

// LLM providers.
const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode selects how updates arrive: long-polling or webhook.
	Mode string `koanf:"mode"`

	// HTTPAddr is the listen address for the webhook, /healthz and /metrics.
	HTTPAddr string `koanf:"http_addr"`

	WebhookURL    string `koanf:"webhook_url"`
	WebhookSecret string `koanf:"webhook_secret"`
	WebhookPath   string `koanf:"webhook_path"`

	DatabaseDSN   string `koanf:"database_dsn"`
	TelegramToken string `koanf:"telegram_token"`

	// LLMProvider is openai or googleai. LLMAPIKey overrides the provider
	// specific keys below.
	LLMProvider  string `koanf:"llm_provider"`
	LLMAPIKey    string `koanf:"llm_api_key"`
	LLMModel     string `koanf:"llm_model"`
	OpenAIAPIKey string `koanf:"openai_api_key"`
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// AllowedChatIDs is a comma separated list of chats the bot answers in.
	AllowedChatIDs string `koanf:"allowed_chat_ids"`

	DefaultLanguage string `koanf:"default_language"`
	Timezone        string `koanf:"timezone"`

	EventAnonymousPoll bool `koanf:"event_anonymous_poll"`

	// LoserOfDaySchedule is a five-field cron expression; empty disables it.
	LoserOfDaySchedule string  `koanf:"loser_of_day_schedule"`
	LoserOfDayChance   float64 `koanf:"loser_of_day_chance"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Mode:               ModeLongPolling,
		HTTPAddr:           ":8080",
		WebhookPath:        "/telegram/webhook",
		LLMProvider:        ProviderOpenAI,
		DefaultLanguage:    "en",
		Timezone:           "UTC",
		EventAnonymousPoll: true,
		LoserOfDayChance:   0.1,
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMAPIKey != "" {
		return c.LLMAPIKey
	}
	if c.LLMProvider == ProviderGoogleAI {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// ChatIDs parses AllowedChatIDs.
func (c *Config) ChatIDs() (map[int64]struct{}, error) {
	return ParseChatIDs(c.AllowedChatIDs)
}

// ParseChatIDs parses a comma or whitespace separated id list.
func ParseChatIDs(raw string) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' })
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: chat id %q", ErrInvalidConfig, f)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Validate checks the settings needed to serve updates.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("%w: telegram_token is required", ErrInvalidConfig)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: database_dsn is required", ErrInvalidConfig)
	}
	switch c.Mode {
	case ModeLongPolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("%w: webhook_url is required in webhook mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGoogleAI:
	default:
		return fmt.Errorf("%w: unknown llm_provider %q", ErrInvalidConfig, c.LLMProvider)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%w: no API key for %s", ErrInvalidConfig, c.LLMProvider)
	}
	if c.LoserOfDayChance < 0 || c.LoserOfDayChance > 1 {
		return fmt.Errorf("%w: loser_of_day_chance must be within [0, 1]", ErrInvalidConfig)
	}
	if _, err := c.ChatIDs(); err != nil {
		return err
	}
	return nil
}
