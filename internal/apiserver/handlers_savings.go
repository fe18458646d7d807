package apiserver

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv core.SavingsInvestment
	if err := decodeJSON(r, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	inv.Normalize()
	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateInvestment(r.Context(), inv)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "create investment failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.repo.ListInvestments(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list investments failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if investments == nil {
		investments = []core.SavingsInvestment{}
	}
	writeJSON(w, http.StatusOK, investments)
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	inv, err := s.repo.GetInvestment(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, "investment not found")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	var inv core.SavingsInvestment
	if err := decodeJSON(r, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// A position switched to non-recurring sheds its recurring fields.
	inv.Normalize()
	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.repo.UpdateInvestment(r.Context(), id, inv)
	if err != nil {
		writeStorageError(w, err, "investment not found")
		return
	}
	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	if err := s.repo.DeleteInvestment(r.Context(), id); err != nil {
		writeStorageError(w, err, "investment not found")
		return
	}
	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, map[string]string{"message": "investment deleted"})
}

// handleSavingsComparison contrasts this month's account balance with the
// amounts locked in investments.
func (s *Server) handleSavingsComparison(w http.ResponseWriter, r *http.Request) {
	today := core.Today()
	start, end := monthRange(today.Year(), today.Month())

	txs, err := s.repo.ListTransactionsByRange(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "comparison transactions failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	investments, err := s.repo.ListInvestments(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "comparison investments failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, savingsComparison(txs, investments))
}
