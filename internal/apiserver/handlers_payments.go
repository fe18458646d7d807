package apiserver

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var p core.CreditCardPayment
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// Reject payments against cards that do not exist.
	if _, err := s.repo.GetCard(r.Context(), p.CreditCardID); err != nil {
		writeStorageError(w, err, "credit card not found")
		return
	}

	created, err := s.repo.CreatePayment(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "create payment failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.repo.ListPayments(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list payments failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if payments == nil {
		payments = []core.CreditCardPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handlePaymentsByCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	payments, err := s.repo.ListPaymentsByCard(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list payments by card failed",
			log.FieldCardID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if payments == nil {
		payments = []core.CreditCardPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handlePaymentsByRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payments, err := s.repo.ListPaymentsByRange(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list payments by range failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if payments == nil {
		payments = []core.CreditCardPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	p, err := s.repo.GetPayment(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	var p core.CreditCardPayment
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.repo.UpdatePayment(r.Context(), id, p)
	if err != nil {
		writeStorageError(w, err, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	if err := s.repo.DeletePayment(r.Context(), id); err != nil {
		writeStorageError(w, err, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "payment deleted"})
}
