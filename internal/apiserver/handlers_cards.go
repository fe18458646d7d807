package apiserver

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var card core.CreditCard
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := card.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.repo.CreateCard(r.Context(), card)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "create card failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.repo.ListCards(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list cards failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cards == nil {
		cards = []core.CreditCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	card, err := s.repo.GetCard(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, "credit card not found")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	var card core.CreditCard
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := card.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.repo.UpdateCard(r.Context(), id, card)
	if err != nil {
		writeStorageError(w, err, "credit card not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	if err := s.repo.DeleteCard(r.Context(), id); err != nil {
		writeStorageError(w, err, "credit card not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "credit card deleted"})
}

// handleCardUtilization computes spend inside the card's current billing
// cycle against its limit.
func (s *Server) handleCardUtilization(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	card, err := s.repo.GetCard(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, "credit card not found")
		return
	}

	today := core.Today()
	start, end := billingCycleWindow(card, today)
	spent, err := s.repo.CardSpend(r.Context(), id, start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "card spend query failed",
			log.FieldCardID, id, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, cardUtilization(card, spent, today))
}
