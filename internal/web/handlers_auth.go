package web

import (
	"errors"
	"net/http"

	"fintrack/internal/api"
	"fintrack/internal/log"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", nil)
	case http.MethodPost:
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		password := r.Form.Get("password")
		if username == "" || password == "" {
			UnprocessableEntityError("username and password are required").Write(w)
			return
		}

		tok, err := s.client.Login(r.Context(), username, password)
		if err != nil {
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
				UnprocessableEntityError("invalid credentials").Write(w)
				return
			}
			s.logger.ErrorContext(r.Context(), "login failed", log.FieldError, err)
			InternalServerError("login unavailable").Write(w)
			return
		}
		if err := s.sessions.Save(tok.AccessToken); err != nil {
			s.logger.ErrorContext(r.Context(), "session save failed", log.FieldError, err)
			InternalServerError("could not persist session").Write(w)
			return
		}

		if r.Header.Get("HX-Request") == "true" {
			NewHTMXResponse().Header("HX-Redirect", "/").Write(w)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := s.sessions.Clear(); err != nil {
		s.logger.ErrorContext(r.Context(), "session clear failed", log.FieldError, err)
	}
	if r.Header.Get("HX-Request") == "true" {
		NewHTMXResponse().Header("HX-Redirect", "/login").Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
