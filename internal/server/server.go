// Package server exposes the bot's HTTP surface: the Telegram webhook,
// /healthz and /metrics.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fedesecco/skibidi-bot/internal/logger"
)

// SecretHeader carries the webhook secret set with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler processes one update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Options configures the router. Updates is only mounted when WebhookPath
// is set. A nil Metrics handler leaves /metrics unmounted.
type Options struct {
	WebhookPath   string
	WebhookSecret string
	Updates       UpdateHandler
	Metrics       http.Handler
	Logger        logger.Logger

	// BaseContext is used for update processing, which outlives the request.
	BaseContext context.Context
}

// NewRouter builds the chi mux with every route wired.
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	base := opts.BaseContext
	if base == nil {
		base = context.Background()
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.WebhookPath != "" && opts.Updates != nil {
		r.Post(opts.WebhookPath, webhookHandler(base, opts.WebhookSecret, opts.Updates, log))
	}
	return r
}

func webhookHandler(base context.Context, secret string, updates UpdateHandler, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret != "" {
			got := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.Warn(r.Context(), "webhook rejected: bad secret token")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Warn(r.Context(), "webhook rejected: bad payload", logger.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Telegram retries slow webhooks, so acknowledge before processing.
		go updates.HandleUpdate(base, update)
		w.WriteHeader(http.StatusOK)
	}
}
