package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// InvestmentRepository is the slice of storage the recurring processor needs.
type InvestmentRepository interface {
	ListInvestments(ctx context.Context) ([]core.SavingsInvestment, error)
	UpdateInvestment(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error)
}

// RecurringInvestmentProcessor folds the recurring contribution into each
// recurring position when the next interval has elapsed. Runs daily; a
// position is touched at most once per interval.
type RecurringInvestmentProcessor struct {
	repo   InvestmentRepository
	logger *log.Logger
}

func NewRecurringInvestmentProcessor(repo InvestmentRepository, logger *log.Logger) *RecurringInvestmentProcessor {
	return &RecurringInvestmentProcessor{repo: repo, logger: logger}
}

// Process accrues all due recurring investments and returns how many changed.
func (p *RecurringInvestmentProcessor) Process(ctx context.Context, today core.Date) (int, error) {
	investments, err := p.repo.ListInvestments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list investments: %w", err)
	}

	processed := 0
	for _, inv := range investments {
		if !inv.IsRecurring || inv.RecurringAmount == nil {
			continue
		}
		if !accrualDue(inv, today) {
			continue
		}

		amount := *inv.RecurringAmount
		inv.InitialAmount += amount
		inv.CurrentValue += amount
		inv.LastRecurringDate = &today

		if _, err := p.repo.UpdateInvestment(ctx, inv.ID, inv); err != nil {
			p.logger.ErrorContext(ctx, "accrue recurring investment failed",
				log.FieldEntityID, inv.ID,
				log.FieldError, err)
			continue
		}

		processed++
		p.logger.InfoContext(ctx, "accrued recurring investment",
			log.FieldEntityID, inv.ID,
			log.FieldAmount, amount)
	}

	return processed, nil
}

// accrualDue reports whether a full interval has elapsed since the last
// accrual. A position that never accrued starts its cycle today.
func accrualDue(inv core.SavingsInvestment, today core.Date) bool {
	if inv.LastRecurringDate == nil {
		return true
	}
	last := inv.LastRecurringDate.Time
	if inv.RecurringType == nil {
		return false
	}
	switch *inv.RecurringType {
	case core.RecurMonthly:
		return !today.Time.Before(last.AddDate(0, 1, 0))
	case core.RecurYearly:
		return !today.Time.Before(last.AddDate(1, 0, 0))
	default:
		return false
	}
}
