package apiserver

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var sal core.Salary
	if err := decodeJSON(r, &sal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sal.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateSalary(r.Context(), sal)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "create salary failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.repo.ListSalaries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list salaries failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if salaries == nil {
		salaries = []core.Salary{}
	}
	writeJSON(w, http.StatusOK, salaries)
}

func (s *Server) handleActiveSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.repo.ListActiveSalaries(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list active salaries failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if salaries == nil {
		salaries = []core.Salary{}
	}
	writeJSON(w, http.StatusOK, salaries)
}

func (s *Server) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid salary id")
		return
	}
	sal, err := s.repo.GetSalary(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, "salary not found")
		return
	}
	writeJSON(w, http.StatusOK, sal)
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid salary id")
		return
	}
	var sal core.Salary
	if err := decodeJSON(r, &sal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sal.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.repo.UpdateSalary(r.Context(), id, sal)
	if err != nil {
		writeStorageError(w, err, "salary not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid salary id")
		return
	}
	if err := s.repo.DeleteSalary(r.Context(), id); err != nil {
		writeStorageError(w, err, "salary not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "salary deleted"})
}

// handleProcessSalaries posts income for every active salary not yet posted
// this month. Safe to call repeatedly.
func (s *Server) handleProcessSalaries(w http.ResponseWriter, r *http.Request) {
	processed, err := s.salaries.ProcessMonthly(r.Context(), core.Today())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "process salaries failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if processed > 0 {
		s.invalidateAnalytics()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": processed,
		"message":   fmt.Sprintf("Processed %d salary entries", processed),
	})
}
