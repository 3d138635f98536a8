package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financeflow/internal/amqp"
	"financeflow/internal/config"
	applog "financeflow/internal/log"
	"financeflow/internal/notify"
	"financeflow/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logConfig := applog.DefaultConfig()
	logConfig.Component = applog.ComponentWorker
	logger := applog.New(logConfig)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	notifiers := []notify.Notifier{notify.NewLogNotifier()}
	if cfg.EmailEnabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.AlertFrom, cfg.AlertTo,
		))
		logger.Info("Email notifications enabled", "to", cfg.AlertTo)
	} else {
		logger.Info("Email notifications disabled - SMTP not configured")
	}

	alertWorker := worker.NewAlertWorker(notifiers...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting alert worker", "queue", cfg.AMQPQueue)
		return alertWorker.Run(gctx, amqpClient)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Alert worker failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Alert worker stopped gracefully")
}
