package core

import "fmt"

// GenerateInsights derives spending advice from a monthly summary. The rules
// mirror what the analytics endpoint returns so the web app can render
// insights even when only a summary is at hand.
func GenerateInsights(s MonthlySummary) []Insight {
	var insights []Insight

	if s.TotalIncome > 0 {
		expenseRatio := s.TotalExpense / s.TotalIncome * 100
		switch {
		case expenseRatio > 90:
			insights = append(insights, Insight{
				Message:  "Your expenses are very close to your income. Consider reducing discretionary spending.",
				Severity: SeverityAlert,
			})
		case expenseRatio > 80:
			insights = append(insights, Insight{
				Message:  "Your expense-to-income ratio is high. Review your spending categories.",
				Severity: SeverityWarning,
			})
		}
	}

	if s.Savings < 0 {
		insights = append(insights, Insight{
			Message:  "You are spending more than you earn. This is unsustainable long-term.",
			Severity: SeverityAlert,
		})
	}

	if s.TotalIncome > 0 {
		rate := SavingsRate(s.TotalIncome, s.Savings)
		switch {
		case rate >= 0 && rate < 10:
			insights = append(insights, Insight{
				Message:  "Your savings rate is below 10%. Try to save at least 10-20% of your income.",
				Severity: SeverityWarning,
			})
		case rate >= 20:
			insights = append(insights, Insight{
				Message:  "Great! You're saving 20% or more of your income. Keep it up!",
				Severity: SeverityInfo,
			})
		}
	}

	if len(s.TopCategories) > 0 {
		top := s.TopCategories[0]
		share := CategoryShare(top.Amount, s.TotalExpense)
		if share > 40 {
			insights = append(insights, Insight{
				Message:  fmt.Sprintf("%s accounts for %.1f%% of your expenses. Consider budgeting this category.", top.Name, share),
				Severity: SeverityInfo,
			})
		}
	}

	return insights
}
