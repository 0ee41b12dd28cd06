package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/bot"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/config"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	// .env is optional; environment variables win over the YAML file either way.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	app, err := bot.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return err
	}

	startedAt := time.Now()
	runOpts.OnStart = func(ctx context.Context, rt telegram.Runtime) error {
		logger.L.With("component", "app").Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, rt telegram.Runtime) error {
		logger.L.With("component", "app").Info("shutting down...",
			slog.String("event", "shutdown"),
		)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.RunTelegram(ctx, runOpts)
}
