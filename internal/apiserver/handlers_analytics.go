package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// computeMonthlySummary loads a month's transactions plus the investment
// collection and aggregates them.
func (s *Server) computeMonthlySummary(ctx context.Context, year, month int, includeInvestments bool) (core.MonthlySummary, error) {
	start, end := monthRange(year, month)
	txs, err := s.repo.ListTransactionsByRange(ctx, start, end)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions: %w", err)
	}
	investments, err := s.repo.ListInvestments(ctx)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list investments: %w", err)
	}
	return monthlySummary(txs, investments, year, month, includeInvestments), nil
}

func (s *Server) handleMonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeInvestments, _ := strconv.ParseBool(r.URL.Query().Get("include_investments"))

	key := fmt.Sprintf("monthly:%s:%t", monthKey(year, month), includeInvestments)
	if cached, ok := s.analytics.Get(key); ok {
		writeJSON(w, http.StatusOK, cached.(core.MonthlySummary))
		return
	}

	summary, err := s.computeMonthlySummary(r.Context(), year, month, includeInvestments)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "monthly analytics failed",
			log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.analytics.Set(key, summary, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleYearlyAnalytics(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("yearly:%d", year)
	if cached, ok := s.analytics.Get(key); ok {
		writeJSON(w, http.StatusOK, cached.(core.YearlySummary))
		return
	}

	out := core.YearlySummary{Year: year, MonthlyBreakdown: make([]core.TrendPoint, 0, 12)}
	for month := 1; month <= 12; month++ {
		summary, err := s.computeMonthlySummary(r.Context(), year, month, true)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "yearly analytics failed",
				log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		out.TotalIncome += summary.TotalIncome
		out.TotalExpense += summary.TotalExpense
		out.Investments += summary.Investments
		out.MonthlyBreakdown = append(out.MonthlyBreakdown, trendPoint(summary))
	}
	out.TotalIncome = round2(out.TotalIncome)
	out.TotalExpense = round2(out.TotalExpense)
	out.Investments = round2(out.Investments)
	out.Savings = round2(out.TotalIncome - out.TotalExpense - out.Investments)

	s.analytics.Set(key, out, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, out)
}

// handleYearlyCategories aggregates expense categories over a whole year,
// sorted descending.
func (s *Server) handleYearlyCategories(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("yearlycat:%d", year)
	if cached, ok := s.analytics.Get(key); ok {
		writeJSON(w, http.StatusOK, cached.([]core.CategoryAmount))
		return
	}

	start := core.NewDate(year, 1, 1)
	end := core.NewDate(year, 12, 31)
	txs, err := s.repo.ListTransactionsByRange(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "yearly categories failed",
			log.FieldYear, year, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	categories := map[string]float64{}
	for _, tx := range txs {
		if tx.Type == core.Expense {
			categories[tx.Category] += tx.Amount
		}
	}
	out := sortedCategories(categories)

	s.analytics.Set(key, out, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	year, month, err := pathYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.computeMonthlySummary(r.Context(), year, month, true)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "insights failed",
			log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	insights := core.GenerateInsights(summary)
	if insights == nil {
		insights = []core.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleSpendingTrends returns one point per month. With a year parameter it
// covers that year up to the current month; otherwise it covers the trailing
// months window.
func (s *Server) handleSpendingTrends(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", 6)
	if months < 1 {
		months = 1
	}
	if months > 24 {
		months = 24
	}
	year := queryInt(r, "year", 0)

	key := fmt.Sprintf("trends:%d:%d", months, year)
	if cached, ok := s.analytics.Get(key); ok {
		writeJSON(w, http.StatusOK, cached.([]core.TrendPoint))
		return
	}

	var windows []time.Time
	now := time.Now()
	if year >= 1900 && year <= 2100 {
		lastMonth := 12
		if year == now.Year() {
			lastMonth = int(now.Month())
		}
		for m := 1; m <= lastMonth; m++ {
			windows = append(windows, time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC))
		}
	} else {
		anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := months - 1; i >= 0; i-- {
			windows = append(windows, anchor.AddDate(0, -i, 0))
		}
	}

	out := make([]core.TrendPoint, 0, len(windows))
	for _, wnd := range windows {
		summary, err := s.computeMonthlySummary(r.Context(), wnd.Year(), int(wnd.Month()), true)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "spending trends failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		out = append(out, trendPoint(summary))
	}

	s.analytics.Set(key, out, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCurrentSummary(w http.ResponseWriter, r *http.Request) {
	today := core.Today()

	key := "current:" + monthKey(today.Year(), today.Month())
	if cached, ok := s.analytics.Get(key); ok {
		writeJSON(w, http.StatusOK, cached.(core.Analytics))
		return
	}

	summary, err := s.computeMonthlySummary(r.Context(), today.Year(), today.Month(), true)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "current summary failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	insights := core.GenerateInsights(summary)
	if insights == nil {
		insights = []core.Insight{}
	}
	out := core.Analytics{MonthlySummary: summary, Insights: insights}

	s.analytics.Set(key, out, gocache.DefaultExpiration)
	writeJSON(w, http.StatusOK, out)
}
