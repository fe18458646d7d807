package apiserver

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fintrack/internal/core"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// monthRange returns the first and last calendar day of a month.
func monthRange(year, month int) (core.Date, core.Date) {
	start := core.NewDate(year, month, 1)
	end := core.Date{Time: start.Time.AddDate(0, 1, -1)}
	return start, end
}

// monthlyInvestmentAccrual is the investment outflow attributed to a month:
// the full contribution of monthly positions started by then, one twelfth of
// yearly positions, and the initial amount of one-off positions bought that
// month.
func monthlyInvestmentAccrual(investments []core.SavingsInvestment, year, month int) float64 {
	var total float64
	for _, inv := range investments {
		py, pm := inv.PurchaseDate.Year(), inv.PurchaseDate.Month()
		startedByMonth := py < year || (py == year && pm <= month)

		if !inv.IsRecurring {
			if py == year && pm == month {
				total += inv.InitialAmount
			}
			continue
		}
		if inv.RecurringType == nil || inv.RecurringAmount == nil || !startedByMonth {
			continue
		}
		switch *inv.RecurringType {
		case core.RecurMonthly:
			total += *inv.RecurringAmount
		case core.RecurYearly:
			total += *inv.RecurringAmount / 12
		}
	}
	return total
}

// monthlySummary aggregates a month's transactions. Savings is income minus
// expenses minus investment accruals. top_categories is sorted descending by
// amount; investments appear as their own category when includeInvestments
// is set.
func monthlySummary(txs []core.Transaction, investments []core.SavingsInvestment, year, month int, includeInvestments bool) core.MonthlySummary {
	var income, expense float64
	categories := map[string]float64{}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income += tx.Amount
		case core.Expense:
			expense += tx.Amount
			categories[tx.Category] += tx.Amount
		}
	}

	accrual := monthlyInvestmentAccrual(investments, year, month)
	if includeInvestments && accrual > 0 {
		categories["Investments"] = round2(accrual)
	}

	return core.MonthlySummary{
		Month:         monthKey(year, month),
		TotalIncome:   round2(income),
		TotalExpense:  round2(expense),
		Investments:   round2(accrual),
		Savings:       round2(income - expense - accrual),
		TopCategories: sortedCategories(categories),
	}
}

func sortedCategories(m map[string]float64) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, core.CategoryAmount{Name: name, Amount: round2(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func trendPoint(s core.MonthlySummary) core.TrendPoint {
	return core.TrendPoint{
		Month:       s.Month,
		Income:      s.TotalIncome,
		Expense:     s.TotalExpense,
		Investments: s.Investments,
		Savings:     s.Savings,
	}
}

// billingCycleWindow returns the current billing cycle for a card. The cycle
// containing today starts on the most recent cycle-start day; a cycle whose
// end day precedes its start day crosses into the next month.
func billingCycleWindow(card core.CreditCard, today core.Date) (core.Date, core.Date) {
	year, month, day := today.Year(), today.Month(), today.Day()

	start := core.NewDate(year, month, card.BillingCycleStart)
	if day < card.BillingCycleStart {
		start = core.Date{Time: time.Date(year, time.Month(month-1), card.BillingCycleStart, 0, 0, 0, 0, time.UTC)}
	}

	var end core.Date
	if card.BillingCycleEnd < card.BillingCycleStart {
		if day >= card.BillingCycleStart {
			end = core.Date{Time: time.Date(year, time.Month(month+1), card.BillingCycleEnd, 0, 0, 0, 0, time.UTC)}
		} else {
			end = core.NewDate(year, month, card.BillingCycleEnd)
		}
	} else {
		end = core.NewDate(year, month, card.BillingCycleEnd)
	}
	return start, end
}

// daysToDue counts days until the due day of the month on a 30-day wheel.
func daysToDue(dueDay int, today core.Date) int {
	return ((dueDay-today.Day())%30 + 30) % 30
}

func cardUtilization(card core.CreditCard, spent float64, today core.Date) core.CardUtilization {
	var percent float64
	if card.CreditLimit > 0 {
		percent = spent / card.CreditLimit * 100
	}
	return core.CardUtilization{
		CardID:             card.ID,
		CardName:           card.Name,
		CreditLimit:        card.CreditLimit,
		AmountSpent:        round2(spent),
		UtilizationPercent: round2(percent),
		DaysToDue:          daysToDue(card.DueDate, today),
	}
}

// savingsComparison contrasts this month's account balance with the
// all-time invested amounts.
func savingsComparison(txs []core.Transaction, investments []core.SavingsInvestment) core.SavingsComparison {
	var income, expense float64
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income += tx.Amount
		case core.Expense:
			expense += tx.Amount
		}
	}
	balance := income - expense

	totals := core.SumInvestments(investments)
	return core.SavingsComparison{
		AccountBalance:              round2(balance),
		TotalInvested:               round2(totals.Initial),
		TotalCurrentInvestmentValue: round2(totals.Current),
		InvestmentProfitLoss:        round2(totals.Current - totals.Initial),
		CashSavings:                 round2(balance - totals.Initial),
		Difference:                  round2(balance - totals.Initial),
	}
}
