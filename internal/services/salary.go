package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SalaryRepository is the slice of storage the salary processor needs.
type SalaryRepository interface {
	ListActiveSalaries(ctx context.Context) ([]core.Salary, error)
	MarkSalaryProcessed(ctx context.Context, id int64, date core.Date) error
}

// SalaryProcessor posts each active salary as an income transaction once per
// calendar month. Already-posted salaries (last_added_date in the current
// month) are skipped, so the run is safe to repeat.
type SalaryProcessor struct {
	repo   SalaryRepository
	ledger *LedgerService
	logger *log.Logger
}

func NewSalaryProcessor(repo SalaryRepository, ledger *LedgerService, logger *log.Logger) *SalaryProcessor {
	return &SalaryProcessor{
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

// ProcessMonthly posts income for every active salary due on the given day
// and returns how many were posted.
func (p *SalaryProcessor) ProcessMonthly(ctx context.Context, today core.Date) (int, error) {
	salaries, err := p.repo.ListActiveSalaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active salaries: %w", err)
	}

	processed := 0
	for _, sal := range salaries {
		if !salaryDue(sal, today) {
			continue
		}

		tx := core.Transaction{
			Date:          today,
			Amount:        sal.Amount,
			Type:          core.Income,
			Category:      "Salary",
			Description:   fmt.Sprintf("Monthly salary: %s", sal.Name),
			PaymentMethod: core.PayBank,
		}
		if _, err := p.ledger.CreateTransaction(ctx, tx); err != nil {
			p.logger.ErrorContext(ctx, "post salary income failed",
				log.FieldEntityID, sal.ID,
				log.FieldError, err)
			continue
		}

		if err := p.repo.MarkSalaryProcessed(ctx, sal.ID, today); err != nil {
			// Income is posted; a stale marker means a duplicate next run,
			// which the operator can delete.
			p.logger.ErrorContext(ctx, "mark salary processed failed",
				log.FieldEntityID, sal.ID,
				log.FieldError, err)
		}

		processed++
		p.logger.InfoContext(ctx, "posted salary income",
			log.FieldEntityID, sal.ID,
			log.FieldAmount, sal.Amount)
	}

	return processed, nil
}

// salaryDue reports whether the salary has not yet been posted this month.
// A salary starting in the future is never due.
func salaryDue(sal core.Salary, today core.Date) bool {
	if !sal.StartDate.IsZero() && sal.StartDate.After(today.Time) {
		return false
	}
	last := sal.LastAddedDate
	if last == nil {
		return true
	}
	return last.Year() != today.Year() || last.Month() != today.Month()
}
