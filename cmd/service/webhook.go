package main

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/fedesecco/skibidi-bot/internal/config"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Register webhook_url with Telegram",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, bot, err := webhookBot()
				if err != nil {
					return err
				}
				if cfg.WebhookURL == "" {
					return fmt.Errorf("%w: webhook_url is required", config.ErrInvalidConfig)
				}
				if err := setWebhook(bot, cfg); err != nil {
					return err
				}
				fmt.Printf("webhook set to %s\n", cfg.WebhookURL)
				return nil
			},
		},
		&cobra.Command{
			Use:   "unset",
			Short: "Remove the webhook so long polling can be used",
			RunE: func(_ *cobra.Command, _ []string) error {
				_, bot, err := webhookBot()
				if err != nil {
					return err
				}
				if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
					return fmt.Errorf("delete webhook: %w", err)
				}
				fmt.Println("webhook removed")
				return nil
			},
		},
	)
	return cmd
}

// webhookBot logs in without the database; only the token is needed.
func webhookBot() (*config.Config, *tgbotapi.BotAPI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.TelegramToken == "" {
		return nil, nil, fmt.Errorf("%w: telegram_token is required", config.ErrInvalidConfig)
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, nil, fmt.Errorf("telegram login: %w", err)
	}
	return cfg, bot, nil
}

// setWebhook registers WebhookURL, passing WebhookSecret as secret_token so
// Telegram echoes it in every webhook request.
func setWebhook(bot *tgbotapi.BotAPI, cfg *config.Config) error {
	params := tgbotapi.Params{"url": cfg.WebhookURL}
	params.AddNonEmpty("secret_token", cfg.WebhookSecret)
	if _, err := bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}
