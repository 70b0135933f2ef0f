package main

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fedesecco/skibidi-bot/internal/config"
	"github.com/fedesecco/skibidi-bot/internal/i18n"
	"github.com/fedesecco/skibidi-bot/internal/jobs"
	"github.com/fedesecco/skibidi-bot/internal/llm"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
	"github.com/fedesecco/skibidi-bot/internal/metrics"
)

// app holds the dependencies shared by the subcommands.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	bot       *tgbotapi.BotAPI
	pool      *pgxpool.Pool
	members   *members.Repository
	responder *llm.Responder
	catalog   *i18n.Catalog
	metrics   *metrics.Manager
}

// loadConfig loads and validates the configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.New()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	bot.Debug = cfg.LogLevel == "debug"
	log.Info(ctx, "authorized", logger.String("username", bot.Self.UserName))

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.APIKey(), cfg.LLMModel)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	log.Info(ctx, "llm client ready", logger.String("provider", cfg.LLMProvider), logger.String("model", llmClient.Model()))

	catalog, err := i18n.New()
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		bot:       bot,
		pool:      pool,
		members:   members.NewRepository(pool),
		responder: llm.NewResponder(llmClient, nil),
		catalog:   catalog,
		metrics:   metrics.NewManager(),
	}, nil
}

func (a *app) close() {
	a.pool.Close()
}

// registry lists the jobs runnable by schedule or by `cron run`.
func (a *app) registry() *jobs.Registry {
	loser := &jobs.LoserOfDay{
		Chats:     a.members,
		Sender:    a.bot,
		I18n:      a.catalog,
		Responder: a.responder,
		Chance:    a.cfg.LoserOfDayChance,
		Logger:    a.log.Named("loser_of_day"),
	}
	return jobs.NewRegistry(jobs.Job{ID: jobs.LoserOfDayID, Run: loser.Run})
}
