package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/state"
	"fintrack/internal/web"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWeb)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	sessions := session.NewStore(cfg.TokenPath)
	if err := sessions.Load(); err != nil {
		logger.Warn("no stored session, login required", log.FieldError, err)
	}

	client := api.NewClient(cfg.APIBaseURL, sessions, cfg.FetchTimeout)

	ctx := context.Background()
	transactions := state.NewTransactionStore(ctx, client, logger)
	cards := state.NewCardStore(ctx, client, logger)
	savings := state.NewSavingsStore(ctx, client, logger)
	salaries := state.NewSalaryStore(ctx, client, logger)
	payments := state.NewPaymentStore(ctx, client, logger)
	dashboard := state.NewDashboardLoader(ctx, client, logger)

	srv := web.NewServer(":"+cfg.WebPort, web.Deps{
		Logger:       logger,
		Sessions:     sessions,
		Client:       client,
		Transactions: transactions,
		Cards:        cards,
		Savings:      savings,
		Salaries:     salaries,
		Payments:     payments,
		Dashboard:    dashboard,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		transactions.Close()
		cards.Close()
		savings.Close()
		salaries.Close()
		payments.Close()
		dashboard.Close()
	})

	logger.Info("starting web server", "port", cfg.WebPort, "api", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.WebPort)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("server stopped gracefully")
}
