package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financeflow/internal/amqp"
	"financeflow/internal/budget"
	"financeflow/internal/config"
	"financeflow/internal/files"
	apphttp "financeflow/internal/http"
	applog "financeflow/internal/log"
	"financeflow/internal/progress"
	"financeflow/internal/services"
	"financeflow/internal/storage"
)

func main() {
	// .env is for local development; absence is fine in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The broker is optional at startup: alerts still persist without
	// it, only the push notification path is disabled.
	var publisher services.AlertPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, alert publishing disabled", applog.FieldError, err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	evaluator := budget.NewEvaluator(cfg.ApproachingThreshold, cfg.AlertLanguage)
	transactionService := services.NewTransactionService(repo, evaluator, publisher)
	categoryService := services.NewCategoryService(repo)
	exportService := services.NewExportService(repo, files.NewStore(cfg.DownloadsDir), progress.NewRegistry())

	server := apphttp.NewServer(":"+cfg.Port, repo, transactionService, categoryService, exportService)
	server.ReadTimeout = 10 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.IdleTimeout = 60 * time.Second
	server.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting financeflow server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
