package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fedesecco/skibidi-bot/internal/config"
	"github.com/fedesecco/skibidi-bot/internal/logger"
)

func cronCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Scheduled jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run <job-id>",
		Short: "Run a scheduled job once, now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()
			return a.registry().Run(ctx, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the job ids",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(strings.Join((&app{cfg: config.New(), log: logger.Nop()}).registry().IDs(), "\n"))
		},
	})
	return cmd
}
