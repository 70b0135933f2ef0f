package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// legacyEnv maps the unprefixed variables deployments already use.
var legacyEnv = map[string]string{
	"TELEGRAM_BOT_TOKEN": "telegram_token",
	"OPENAI_API_KEY":     "openai_api_key",
	"GEMINI_API_KEY":     "gemini_api_key",
	"DATABASE_URL":       "database_dsn",
	"WEBHOOK_URL":        "webhook_url",
	"WEBHOOK_SECRET":     "webhook_secret",
	"ALLOWED_CHAT_IDS":   "allowed_chat_ids",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SKIBIDI_CONFIG is set
//  3. legacy unprefixed env vars (TELEGRAM_BOT_TOKEN, ...)
//  4. env (prefix SKIBIDI_)
//
// Load does not validate; call Validate for commands that need a full config.
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SKIBIDI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	legacy := env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// SKIBIDI_LOG_LEVEL -> log_level (flat keys)
	prefixed := env.Provider("SKIBIDI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skibidi_")
		if s == "config" {
			return ""
		}
		return s
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	return &cfg, nil
}
