package web

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleSalaries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSalariesPage(w, r)
	case http.MethodPost:
		s.handleCreateSalary(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderSalariesPage(w http.ResponseWriter, r *http.Request) {
	if err := s.salaries.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "salary refresh failed", log.FieldError, err)
	}
	snap := s.salaries.Snapshot()
	s.render(w, r, "salaries.html", struct {
		Salaries []core.Salary
		Today    string
		Err      error
	}{Salaries: snap.Items, Today: core.Today().String(), Err: snap.Err})
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	sal, err := parseSalaryForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.salaries.Create(r.Context(), sal)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "salary create failed", log.FieldError, err)
		InternalServerError("could not save salary").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSalariesChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Salary configured: " + created.Name).
		Write(w)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing salary id").Write(w)
		return
	}

	if err := s.salaries.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "salary delete failed",
			log.FieldError, err, log.FieldEntityID, id)
		InternalServerError("could not delete salary").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSalariesChanged().
		TriggerSuccessNotification("Salary deleted").
		Write(w)
}

// handleProcessSalaries triggers the server-side monthly salary run.
func (s *Server) handleProcessSalaries(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	res, err := s.salaries.ProcessMonthly(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "salary processing failed", log.FieldError, err)
		InternalServerError("could not process salaries").Write(w)
		return
	}

	now := core.Today()
	s.invalidateMonth(now.Year(), now.Month())
	NewHTMXResponse().
		TriggerSalariesChanged().
		TriggerTransactionCreated(now.Year(), now.Month()).
		TriggerSuccessNotification(fmt.Sprintf("Processed %d salaries", res.Processed)).
		Write(w)
}
