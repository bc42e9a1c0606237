package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	sheetsmem "fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a spreadsheet ID, exported rows go to an in-memory sink.
	// Useful for local runs against a real broker.
	var appender sheets.RowAppender
	if cfg.ExportSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.ExportSpreadsheetID, cfg.ExportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets client initialized",
			"spreadsheet_id", cfg.ExportSpreadsheetID, "sheet", cfg.ExportSheetName)
	} else {
		appender = sheetsmem.New()
		logger.Warn("EXPORT_SPREADSHEET_ID not set, exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, appender, nil, logger, cfg.ExportBatchSize)

	// Recover anything that went pending while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := exportWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
	}

	go func() {
		handler := func(msg *amqp.RecordExportMessage) error {
			return exportWorker.HandleExportMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeRecordExport(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
			cancel()
		}
	}()

	ticker := time.NewTicker(cfg.ExportInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := exportWorker.ProcessPendingRecords(ctx); err != nil {
					logger.Error("Periodic export sweep failed", log.FieldError, err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
