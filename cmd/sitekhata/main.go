package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sitekhata/internal/amqp"
	"sitekhata/internal/config"
	apphttp "sitekhata/internal/http"
	"sitekhata/internal/ledger"
	applog "sitekhata/internal/log"
	"sitekhata/internal/report"
	"sitekhata/internal/services"
	"sitekhata/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
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

	// AMQP is optional: without a broker the server still records and
	// reports, it just cannot notify or queue exports.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPNotifyQueue, cfg.AMQPExportQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, notifications and exports disabled", applog.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", applog.FieldExchange, cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	agg := ledger.NewAggregator(repo, repo, repo, repo)
	gen := report.NewGenerator(repo, repo, repo, repo, agg)

	var notifier services.Notifier
	var exporter apphttp.ExportPublisher
	if amqpClient != nil {
		notifier = amqpClient
		exporter = amqpClient
	}
	records := services.NewRecordService(repo, notifier)

	srv := apphttp.NewServer(":"+cfg.Port, repo, records, agg, gen, exporter, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting sitekhata server", "port", cfg.Port, "db_path", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
