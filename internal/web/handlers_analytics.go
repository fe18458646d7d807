package web

import (
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleAnalyticsPage(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	s.render(w, r, "analytics.html", struct {
		Year  int
		Month int
	}{Year: params.Year, Month: params.Month})
}

// handleMonthSummary renders the monthly summary partial. Results are cached
// briefly; a transaction write for the month invalidates the entry.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	includeInvestments := r.URL.Query().Get("include_investments") != "false"

	key := monthCacheKey(params.Year, params.Month, includeInvestments)
	summary, ok := s.summaryCache.Get(key)
	if !ok {
		var err error
		summary, err = s.client.MonthlyAnalytics(r.Context(), params.Year, params.Month, includeInvestments)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "monthly analytics fetch failed",
				log.FieldError, err, log.FieldYear, params.Year, log.FieldMonth, params.Month)
			ErrorResponse(http.StatusBadGateway, "could not load summary").Write(w)
			return
		}
		s.summaryCache.Set(key, summary)
	}

	// Category bars scale against the largest category.
	var maxAmount float64
	for _, c := range summary.TopCategories {
		if c.Amount > maxAmount {
			maxAmount = c.Amount
		}
	}
	type categoryBar struct {
		Name   string
		Amount float64
		Share  float64
		Width  float64
	}
	bars := make([]categoryBar, len(summary.TopCategories))
	for i, c := range summary.TopCategories {
		width := 0.0
		if maxAmount > 0 {
			width = core.UtilizationBarWidth(c.Amount / maxAmount * 100)
		}
		bars[i] = categoryBar{
			Name:   c.Name,
			Amount: c.Amount,
			Share:  core.CategoryShare(c.Amount, summary.TotalExpense),
			Width:  width,
		}
	}

	s.render(w, r, "month_summary.html", struct {
		Summary     core.MonthlySummary
		SavingsRate float64
		Categories  []categoryBar
	}{
		Summary:     summary,
		SavingsRate: core.SavingsRate(summary.TotalIncome, summary.Savings),
		Categories:  bars,
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	months := 6
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 24 {
			months = n
		}
	}
	year := 0
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}

	key := trendsCacheKey(months, year)
	trends, ok := s.trendsCache.Get(key)
	if !ok {
		var err error
		trends, err = s.client.SpendingTrends(r.Context(), months, year)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "trends fetch failed", log.FieldError, err)
			ErrorResponse(http.StatusBadGateway, "could not load trends").Write(w)
			return
		}
		s.trendsCache.Set(key, trends)
	}

	var maxExpense float64
	for _, p := range trends {
		if p.Expense > maxExpense {
			maxExpense = p.Expense
		}
	}
	type trendBar struct {
		Point core.TrendPoint
		Width float64
	}
	bars := make([]trendBar, len(trends))
	for i, p := range trends {
		width := 0.0
		if maxExpense > 0 {
			width = core.UtilizationBarWidth(p.Expense / maxExpense * 100)
		}
		bars[i] = trendBar{Point: p, Width: width}
	}

	s.render(w, r, "trends.html", struct {
		Trends []trendBar
	}{Trends: bars})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	insights, err := s.client.Insights(r.Context(), params.Year, params.Month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "insights fetch failed",
			log.FieldError, err, log.FieldYear, params.Year, log.FieldMonth, params.Month)
		ErrorResponse(http.StatusBadGateway, "could not load insights").Write(w)
		return
	}
	s.render(w, r, "insights.html", struct {
		Insights []core.Insight
	}{Insights: insights})
}
