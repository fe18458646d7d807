package web

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderCardsPage(w, r)
	case http.MethodPost:
		s.handleCreateCard(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderCardsPage(w http.ResponseWriter, r *http.Request) {
	if err := s.cards.Refresh(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "card refresh failed", log.FieldError, err)
	}
	snap := s.cards.Snapshot()

	rows := make([]cardRow, 0, len(snap.Items))
	for _, card := range snap.Items {
		row := cardRow{Card: card}
		if u, err := s.cards.Utilization(r.Context(), card.ID); err == nil {
			row.Utilization = u
			row.BarWidth = core.UtilizationBarWidth(u.UtilizationPercent)
			row.High = core.HighUtilization(u.UtilizationPercent)
		} else {
			s.logger.ErrorContext(r.Context(), "card utilization fetch failed",
				log.FieldError, err, log.FieldCardID, card.ID)
		}
		rows = append(rows, row)
	}

	s.render(w, r, "cards.html", struct {
		Cards []cardRow
		Err   error
	}{Cards: rows, Err: snap.Err})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	card, err := parseCardForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.cards.Create(r.Context(), card)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "card create failed", log.FieldError, err)
		InternalServerError("could not save card").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerCardsChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Card added: " + created.Name).
		Write(w)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing card id").Write(w)
		return
	}

	if err := s.cards.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "card delete failed",
			log.FieldError, err, log.FieldCardID, id)
		InternalServerError("could not delete card").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerCardsChanged().
		TriggerSuccessNotification("Card deleted").
		Write(w)
}
