// komaribot — Telegram front-end for the Komari server-monitoring dashboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"komaribot/internal/bot"
	"komaribot/internal/config"
	"komaribot/internal/store"
	"komaribot/internal/webhook"
)

const version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:          "komaribot",
		Short:        "komaribot — Telegram bot for Komari monitoring instances",
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and the webhook relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := store.Init(cfg.DBPath); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			b, err := bot.New(cfg.TelegramToken, cfg.BotName, cfg.WebhookBaseURL, cfg.Debug)
			if err != nil {
				return fmt.Errorf("starting bot: %w", err)
			}

			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			// Run the poller and the relay concurrently; shut down
			// gracefully on SIGINT.
			srv := webhook.NewServer(cfg.WebhookPort, b)

			errCh := make(chan error, 2)
			go func() { errCh <- srv.ListenAndServe() }()
			go func() { errCh <- b.Run() }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt)

			select {
			case err := <-errCh:
				return err
			case <-quit:
				log.Printf("[main] shutting down")
				b.Stop()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
				return nil
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print komaribot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("komaribot %s\n", version)
		},
	}

	root.AddCommand(runCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
