package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulsefeed/backend/internal/worker"
	"github.com/pulsefeed/backend/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize data stores", "error", err)
		os.Exit(1)
	}
	defer db.CloseDB(logger)

	if db.Redis == nil {
		logger.Error("REDIS_URL is required for the email worker")
		os.Exit(1)
	}

	var mailer worker.Mailer
	if cfg.SMTPAddr != "" {
		mailer = worker.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		logger.Warn("SMTP_ADDR not set, emails will only be logged")
		mailer = worker.NewLogMailer(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewWorker(db.Redis, db.Postgres, mailer, logger)
	w.StartEmailWorker(ctx)
}
