package web

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSavingsPage(w, r)
	case http.MethodPost:
		s.handleCreateInvestment(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// investmentRow decorates an investment with its derived profit figures.
type investmentRow struct {
	Investment    core.SavingsInvestment
	ProfitLoss    float64
	ProfitPercent float64
}

func (s *Server) renderSavingsPage(w http.ResponseWriter, r *http.Request) {
	if err := s.savings.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "savings refresh failed", log.FieldError, err)
	}
	if err := s.savings.RefreshDependentAggregates(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "savings comparison refresh failed", log.FieldError, err)
	}

	snap := s.savings.Snapshot()
	rows := make([]investmentRow, len(snap.Items))
	for i, inv := range snap.Items {
		rows[i] = investmentRow{
			Investment:    inv,
			ProfitLoss:    core.ProfitLoss(inv),
			ProfitPercent: core.ProfitLossPercent(inv),
		}
	}
	totals := core.SumInvestments(snap.Items)
	cmp, cmpLoaded := s.savings.Comparison()
	msg, ahead := core.ComparisonMessage(cmp)

	s.render(w, r, "savings.html", struct {
		Investments      []investmentRow
		Totals           core.InvestmentTotals
		Comparison       core.SavingsComparison
		ComparisonLoaded bool
		ComparisonMsg    string
		Ahead            bool
		Today            string
		Err              error
	}{
		Investments:      rows,
		Totals:           totals,
		Comparison:       cmp,
		ComparisonLoaded: cmpLoaded,
		ComparisonMsg:    msg,
		Ahead:            ahead,
		Today:            core.Today().String(),
		Err:              snap.Err,
	})
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	inv, err := parseInvestmentForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.savings.Create(r.Context(), inv)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "investment create failed", log.FieldError, err)
		InternalServerError("could not save investment").Write(w)
		return
	}
	// The comparison aggregate depends on the whole set; re-fetch it now so
	// the next render is already consistent.
	if err := s.savings.RefreshDependentAggregates(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "comparison refresh after create failed", log.FieldError, err)
	}

	NewHTMXResponse().
		TriggerSavingsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Investment recorded: " + created.Name).
		Write(w)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	id, err := formID(r.Form, "id")
	if err != nil {
		BadRequestError("missing investment id").Write(w)
		return
	}

	if err := s.savings.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "investment delete failed",
			log.FieldError, err, log.FieldEntityID, id)
		InternalServerError("could not delete investment").Write(w)
		return
	}
	if err := s.savings.RefreshDependentAggregates(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "comparison refresh after delete failed", log.FieldError, err)
	}

	NewHTMXResponse().
		TriggerSavingsChanged().
		TriggerSuccessNotification("Investment deleted").
		Write(w)
}
