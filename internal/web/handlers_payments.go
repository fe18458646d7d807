package web

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderPaymentsPage(w, r)
	case http.MethodPost:
		s.handleCreatePayment(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderPaymentsPage(w http.ResponseWriter, r *http.Request) {
	// Optional card filter narrows the list to one card's history.
	if v := r.URL.Query().Get("card_id"); v != "" {
		if cardID, err := formID(r.URL.Query(), "card_id"); err == nil {
			if err := s.payments.RefreshForCard(r.Context(), cardID); err != nil {
				s.logger.ErrorContext(r.Context(), "payment refresh failed",
					log.FieldError, err, log.FieldCardID, cardID)
			}
		}
	} else if err := s.payments.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "payment refresh failed", log.FieldError, err)
	}
	if err := s.cards.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "card refresh failed", log.FieldError, err)
	}

	paySnap := s.payments.Snapshot()
	cardSnap := s.cards.Snapshot()
	s.render(w, r, "payments.html", struct {
		Payments []core.CreditCardPayment
		Cards    []core.CreditCard
		Today    string
		Err      error
	}{
		Payments: paySnap.Items,
		Cards:    cardSnap.Items,
		Today:    core.Today().String(),
		Err:      paySnap.Err,
	})
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	p, err := parsePaymentForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.payments.Create(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "payment create failed",
			log.FieldError, err, log.FieldCardID, p.CreditCardID)
		InternalServerError("could not save payment").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerPaymentsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Payment recorded: " + core.FormatAmount(created.Amount)).
		Write(w)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing payment id").Write(w)
		return
	}

	if err := s.payments.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "payment delete failed",
			log.FieldError, err, log.FieldEntityID, id)
		InternalServerError("could not delete payment").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerPaymentsChanged().
		TriggerSuccessNotification("Payment deleted").
		Write(w)
}
