package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/apiserver"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	logger := cli.SetupLogger(log.ComponentAPIServer)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateAPIServer)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The broker is optional; without it writes stay local-only.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("connect AMQP failed, continuing without export events", log.FieldError, err)
		} else {
			publisher = client
			amqpClient = client
		}
	}

	ledger := services.NewLedgerService(repo, publisher, logger)
	salaryProc := services.NewSalaryProcessor(repo, ledger, logger)

	srv := apiserver.NewServer(":"+cfg.APIPort, apiserver.Deps{
		Repo:             repo,
		Ledger:           ledger,
		SalaryProcessor:  salaryProc,
		Logger:           logger,
		JWTSecret:        cfg.JWTSecret,
		AuthUsername:     cfg.AuthUsername,
		AuthPasswordHash: cfg.AuthPasswordHash,
		TokenTTL:         cfg.TokenTTL,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("close AMQP failed", log.FieldError, err)
			}
		}
	})

	logger.Info("starting API server", "port", cfg.APIPort, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.APIPort)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("server stopped gracefully")
}
