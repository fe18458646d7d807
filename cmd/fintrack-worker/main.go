package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/export"
	"fintrack/internal/export/google"
	"fintrack/internal/export/memory"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWorker)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("connect AMQP failed", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Without a spreadsheet, events drain into the in-process store. Useful
	// for local development against a real broker.
	var appender export.LedgerAppender
	var remover export.LedgerRemover
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("initialize Google Sheets client failed", log.FieldError, err)
			os.Exit(1)
		}
		appender, remover = client, client
		logger.Info("exporting to Google Sheets", log.FieldSheetsRef, cfg.GoogleSpreadsheetID)
	} else {
		store := memory.New()
		appender, remover = store, store
		logger.Warn("no spreadsheet configured, using in-memory export store")
	}

	w := worker.NewExportWorker(repo, appender, remover, logger)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("starting export worker", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consume failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("worker stopped gracefully")
}
