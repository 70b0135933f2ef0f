package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/spf13/cobra"

	"github.com/fedesecco/skibidi-bot/internal/config"
	"github.com/fedesecco/skibidi-bot/internal/event"
	"github.com/fedesecco/skibidi-bot/internal/handlers"
	"github.com/fedesecco/skibidi-bot/internal/jobs"
	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/members"
	"github.com/fedesecco/skibidi-bot/internal/polls"
	"github.com/fedesecco/skibidi-bot/internal/server"
	"github.com/fedesecco/skibidi-bot/internal/utils"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	allowed, err := cfg.ChatIDs()
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if migrate {
		if err := runMigrations(ctx, a); err != nil {
			return err
		}
	}
	if len(allowed) == 0 {
		a.log.Warn(ctx, "allowed_chat_ids is empty; every chat will be ignored")
	}

	pollsRepo := polls.NewRepository(a.pool)
	registry := a.registry()

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewClosePollWorker(pollsRepo, a.bot, a.metrics, a.log.Named("close_poll")))
	river.AddWorker(workers, jobs.NewRunJobWorker(registry, a.metrics, a.log.Named("cron")))

	var periodic []*river.PeriodicJob
	if cfg.LoserOfDaySchedule != "" {
		pj, err := jobs.PeriodicJob(jobs.LoserOfDayID, cfg.LoserOfDaySchedule)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		periodic = append(periodic, pj)
	}

	riverClient, err := river.NewClient(riverpgxv5.New(a.pool), &river.Config{
		Queues:       map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: 10}},
		Workers:      workers,
		PeriodicJobs: periodic,
	})
	if err != nil {
		return fmt.Errorf("create river client: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("start river client: %w", err)
	}
	defer stopRiver(a, riverClient)

	publisher := polls.NewPublisher(a.bot, pollsRepo, polls.NewPollsService(riverClient), a.log.Named("polls"))
	events := event.NewManager(event.Options{
		Sender:          a.bot,
		Publisher:       publisher,
		Translator:      a.catalog,
		Location:        loc,
		AnonymousPolls:  cfg.EventAnonymousPoll,
		DefaultLanguage: cfg.DefaultLanguage,
		Logger:          a.log.Named("event"),
		Metrics:         a.metrics,
	})
	bot := handlers.New(handlers.Options{
		API:             a.bot,
		Username:        a.bot.Self.UserName,
		Store:           a.members,
		Responder:       a.responder,
		Events:          events,
		Translator:      a.catalog,
		AllowedChats:    allowed,
		DefaultLanguage: cfg.DefaultLanguage,
		Metrics:         a.metrics,
		Logger:          a.log.Named("handlers"),
	})

	routes := server.Options{Metrics: a.metrics.Handler(), Logger: a.log.Named("http"), BaseContext: ctx}
	if cfg.Mode == config.ModeWebhook {
		if err := setWebhook(a.bot, cfg); err != nil {
			return err
		}
		routes.WebhookPath = cfg.WebhookPath
		routes.WebhookSecret = cfg.WebhookSecret
		routes.Updates = bot
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.NewRouter(routes), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "http listening", logger.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Mode == config.ModeLongPolling {
		go longPoll(ctx, a, bot)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	a.log.Info(context.Background(), "shutting down")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctxShutdown)
}

// longPoll consumes getUpdates until ctx is done, one goroutine per update.
func longPoll(ctx context.Context, a *app, bot *handlers.Bot) {
	if _, err := a.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		a.log.Warn(ctx, "failed to remove webhook (continuing)", logger.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := a.bot.GetUpdatesChan(u)
	a.log.Info(ctx, "started long polling", logger.Int("timeout", u.Timeout))
	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go bot.HandleUpdate(ctx, update)
		}
	}
}

func stopRiver(a *app, client *river.Client[pgx.Tx]) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Stop(ctx); err != nil {
		a.log.Warn(ctx, "river stop", logger.Error(err))
	}
}

func runMigrations(ctx context.Context, a *app) error {
	if err := members.Migrate(ctx, a.pool); err != nil {
		return fmt.Errorf("migrate bot schema: %w", err)
	}
	if err := migrateRiver(ctx, a.pool); err != nil {
		return err
	}
	a.log.Info(ctx, "migrations applied")
	return nil
}
