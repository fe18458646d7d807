package web

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionsPage(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderTransactionsPage(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	if err := s.transactions.RefreshMonth(r.Context(), params.Year, params.Month); err != nil {
		s.logger.ErrorContext(r.Context(), "transaction refresh failed", log.FieldError, err,
			log.FieldYear, params.Year, log.FieldMonth, params.Month)
	}
	if err := s.cards.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "card refresh failed", log.FieldError, err)
	}

	txSnap := s.transactions.Snapshot()
	cardSnap := s.cards.Snapshot()
	s.render(w, r, "transactions.html", struct {
		Year         int
		Month        int
		Today        string
		Transactions []core.Transaction
		Cards        []core.CreditCard
		Err          error
	}{
		Year:         params.Year,
		Month:        params.Month,
		Today:        core.Today().String(),
		Transactions: txSnap.Items,
		Cards:        cardSnap.Items,
		Err:          txSnap.Err,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, err := parseTransactionForm(r.Form)
	if err != nil {
		// Validation failures never reach the API; the form keeps its
		// values client-side and shows the message.
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "transaction create failed",
			log.FieldError, err,
			log.FieldAmount, tx.Amount,
			log.FieldCategory, tx.Category)
		InternalServerError("could not save transaction").Write(w)
		return
	}

	year, month := created.Date.Year(), created.Date.Month()
	s.invalidateMonth(year, month)
	NewHTMXResponse().
		TriggerTransactionCreated(year, month).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction recorded: " + core.FormatAmount(created.Amount)).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing transaction id").Write(w)
		return
	}

	// The date travels with the delete form so the right month refreshes.
	date, dateErr := formDate(r.Form, "date")

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "transaction delete failed",
			log.FieldError, err, log.FieldEntityID, id)
		InternalServerError("could not delete transaction").Write(w)
		return
	}

	resp := NewHTMXResponse().TriggerSuccessNotification("Transaction deleted")
	if dateErr == nil {
		s.invalidateMonth(date.Year(), date.Month())
		resp.TriggerTransactionDeleted(date.Year(), date.Month())
	}
	resp.Write(w)
}
