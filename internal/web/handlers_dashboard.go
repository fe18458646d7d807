package web

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const dashboardTrendMonths = 6

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	now := time.Now()
	s.render(w, r, "index.html", struct {
		Year  int
		Month int
		Today string
	}{
		Year:  now.Year(),
		Month: int(now.Month()),
		Today: core.Today().String(),
	})
}

// cardRow pairs a card with its utilization for rendering.
type cardRow struct {
	Card        core.CreditCard
	Utilization core.CardUtilization
	BarWidth    float64
	High        bool
}

// handleDashboardPartial renders the landing composition: current summary,
// insights, savings comparison, card utilizations and the spending trend.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	dash, err := s.dashboard.Load(r.Context(), dashboardTrendMonths)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "dashboard load failed", log.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "could not load dashboard").Write(w)
		return
	}

	rows := make([]cardRow, len(dash.Cards))
	for i, card := range dash.Cards {
		u := dash.Utilizations[i]
		rows[i] = cardRow{
			Card:        card,
			Utilization: u,
			BarWidth:    core.UtilizationBarWidth(u.UtilizationPercent),
			High:        core.HighUtilization(u.UtilizationPercent),
		}
	}

	cmpMsg, ahead := core.ComparisonMessage(dash.Comparison)
	s.render(w, r, "dashboard.html", struct {
		Summary       core.MonthlySummary
		Insights      []core.Insight
		Comparison    core.SavingsComparison
		ComparisonMsg string
		Ahead         bool
		Cards         []cardRow
		Trends        []core.TrendPoint
	}{
		Summary:       dash.Summary.MonthlySummary,
		Insights:      dash.Summary.Insights,
		Comparison:    dash.Comparison,
		ComparisonMsg: cmpMsg,
		Ahead:         ahead,
		Cards:         rows,
		Trends:        dash.Trends,
	})
}

// handleSavingsComparison renders the comparison widget alone; it re-fetches
// through the savings store so the cached aggregate stays current.
func (s *Server) handleSavingsComparison(w http.ResponseWriter, r *http.Request) {
	if err := s.savings.RefreshDependentAggregates(r.Context()); err != nil {
		ErrorResponse(http.StatusBadGateway, "could not load comparison").Write(w)
		return
	}
	cmp, _ := s.savings.Comparison()
	msg, ahead := core.ComparisonMessage(cmp)
	s.render(w, r, "savings_comparison.html", struct {
		Comparison core.SavingsComparison
		Message    string
		Ahead      bool
	}{Comparison: cmp, Message: msg, Ahead: ahead})
}

func (s *Server) handleCardUtilization(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r.URL.Query(), "id")
	if err != nil {
		BadRequestError("missing card id").Write(w)
		return
	}
	u, err := s.cards.Utilization(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "card utilization fetch failed",
			log.FieldError, err, log.FieldCardID, id)
		ErrorResponse(http.StatusBadGateway, "could not load utilization").Write(w)
		return
	}
	s.render(w, r, "card_utilization.html", cardRow{
		Utilization: u,
		BarWidth:    core.UtilizationBarWidth(u.UtilizationPercent),
		High:        core.HighUtilization(u.UtilizationPercent),
	})
}
