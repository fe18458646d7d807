// Package core provides the domain model and the derived-metric functions
// shared by the web client, the API server and the background workers.
//
// All metric functions are pure and total: every ratio guards its
// denominator and returns 0 instead of NaN or +Inf.
package core

// ProfitLoss returns the absolute gain or loss of a single investment.
func ProfitLoss(inv SavingsInvestment) float64 {
	return inv.CurrentValue - inv.InitialAmount
}

// ProfitLossPercent returns the gain or loss relative to the initial amount.
// A position with a zero initial amount reports 0%.
func ProfitLossPercent(inv SavingsInvestment) float64 {
	if inv.InitialAmount == 0 {
		return 0
	}
	return ProfitLoss(inv) / inv.InitialAmount * 100
}

// InvestmentTotals are aggregate sums over a full investment collection.
type InvestmentTotals struct {
	Initial    float64
	Current    float64
	ProfitLoss float64
}

// SumInvestments sums initial and current values independently; the
// aggregate profit/loss equals the difference of the two sums.
func SumInvestments(investments []SavingsInvestment) InvestmentTotals {
	var t InvestmentTotals
	for _, inv := range investments {
		t.Initial += inv.InitialAmount
		t.Current += inv.CurrentValue
	}
	t.ProfitLoss = t.Current - t.Initial
	return t
}

// SavingsRate returns savings as a percentage of income, 0 when income is 0.
func SavingsRate(totalIncome, savings float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	return savings / totalIncome * 100
}

// CategoryShare returns a category's share of total expenses, 0 when there
// are no expenses.
func CategoryShare(amount, totalExpense float64) float64 {
	if totalExpense <= 0 {
		return 0
	}
	return amount / totalExpense * 100
}

// IsAccountAhead reports whether liquid savings cover the amount invested.
// Zero counts as ahead: the comparison is inclusive.
func IsAccountAhead(c SavingsComparison) bool {
	return c.CashSavings >= 0
}

// ComparisonMessage renders the cash-vs-investments status line. The ahead
// case is positively framed, the behind case is a warning; both show the
// absolute value.
func ComparisonMessage(c SavingsComparison) (msg string, ahead bool) {
	ahead = IsAccountAhead(c)
	amount := c.CashSavings
	if amount < 0 {
		amount = -amount
	}
	if ahead {
		return "You have " + FormatAmount(amount) + " in liquid savings after investments.", true
	}
	return "Your investments (" + FormatAmount(amount) + ") exceed your account balance.", false
}

// UtilizationBarWidth clamps a utilization percentage to the visual bar
// range. The figure itself is displayed unclamped.
func UtilizationBarWidth(percent float64) float64 {
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

// highUtilizationThreshold marks the point where card spend gets flagged.
const highUtilizationThreshold = 70

// HighUtilization reports whether a card's spend warrants warning styling.
func HighUtilization(percent float64) bool {
	return percent > highUtilizationThreshold
}
