package main

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// The schedule worker runs the salary and recurring-investment processors on
// a fixed interval. Both are idempotent within their period, so a tight
// interval only costs queries.
func main() {
	logger := cli.SetupLogger(log.ComponentSchedule)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("connect AMQP failed, continuing without export events", log.FieldError, err)
		} else {
			publisher = client
			defer client.Close()
		}
	}

	ledger := services.NewLedgerService(repo, publisher, logger)
	salaryProc := services.NewSalaryProcessor(repo, ledger, logger)
	recurringProc := services.NewRecurringInvestmentProcessor(repo, logger)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	runOnce := func() {
		today := core.Today()
		opCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if n, err := salaryProc.ProcessMonthly(opCtx, today); err != nil {
			logger.Error("salary processing failed", log.FieldError, err)
		} else if n > 0 {
			logger.Info("posted salary incomes", "count", n)
		}

		if n, err := recurringProc.Process(opCtx, today); err != nil {
			logger.Error("recurring investment processing failed", log.FieldError, err)
		} else if n > 0 {
			logger.Info("accrued recurring investments", "count", n)
		}
	}

	logger.Info("starting schedule worker", "interval", cfg.ScheduleInterval.String())
	runOnce()

	ticker := time.NewTicker(cfg.ScheduleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("worker stopped gracefully")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
