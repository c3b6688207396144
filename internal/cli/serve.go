package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/bot"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/scheduler"
	"github.com/example/wordbook/internal/server"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(app *App) *cobra.Command {
	var accessLog bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("driver") {
				cfg.DBDriver, _ = cmd.Flags().GetString("driver")
			}
			if cmd.Flags().Changed("database-url") {
				cfg.DatabaseURL, _ = cmd.Flags().GetString("database-url")
			}

			db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			var opts []server.Option
			if accessLog {
				opts = append(opts, server.WithCombinedLog())
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return server.New(db, app.logger, opts...).Run(ctx, cfg.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from SERVER_ADDR or :8000)")
	cmd.Flags().String("driver", "", "sqlite3 or postgres")
	cmd.Flags().String("database-url", "", "database DSN (default: "+database.DefaultSQLitePath+" for sqlite3)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "also write a combined-format access log to stdout")
	return cmd
}

func newBotCmd(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with review reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				token = app.cfg.Bot.Token
			}
			if token == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is not set")
			}
			mgr, err := app.manager()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			b, err := bot.Start(ctx, token, app.client, mgr, bot.DefaultConfig(), app.logger)
			if err != nil {
				return err
			}

			window := scheduler.Window{
				StartHour: app.cfg.Bot.NotificationStartHour,
				EndHour:   app.cfg.Bot.NotificationEndHour,
			}
			sched := scheduler.New(b, app.client, app.store, window, time.Local, app.logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start reminders: %w", err)
			}
			defer sched.Stop()

			app.logger.Info("bot started, press Ctrl+C to stop")
			<-ctx.Done()
			app.logger.Info("bot stopped", zap.NamedError("reason", context.Cause(ctx)))
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bot token (default from TELEGRAM_BOT_TOKEN)")
	return cmd
}
