package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sitekhata/internal/amqp"
	"sitekhata/internal/config"
	"sitekhata/internal/export"
	"sitekhata/internal/export/drive"
	"sitekhata/internal/export/local"
	"sitekhata/internal/ledger"
	applog "sitekhata/internal/log"
	"sitekhata/internal/report"
	"sitekhata/internal/storage"
	"sitekhata/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting sitekhata-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var exporter export.Exporter
	switch cfg.ExportBackend {
	case "drive":
		client, err := drive.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Drive client", applog.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Initialized Drive export backend")
	default:
		dir, err := local.New(cfg.ExportDir)
		if err != nil {
			logger.Error("Failed to initialize local export directory", applog.FieldError, err, "dir", cfg.ExportDir)
			os.Exit(1)
		}
		exporter = dir
		logger.Info("Initialized local export backend", "dir", cfg.ExportDir)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPNotifyQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	agg := ledger.NewAggregator(repo, repo, repo, repo)
	gen := report.NewGenerator(repo, repo, repo, repo, agg)
	exportWorker := worker.NewExportWorker(gen, exporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Consuming export requests", applog.FieldQueue, cfg.AMQPExportQueue)
	if err := amqpClient.ConsumeExportRequests(ctx, exportWorker.HandleExportRequest); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Export consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}

	logger.Info("Worker stopped gracefully")
}
