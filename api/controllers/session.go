package controllers

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/api/validators"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	"github.com/brewpoint/kiosk/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
	AdminScope    bool `json:"admin_scope"`
}

// SessionLogin exchanges admin credentials for a persisted session.
func SessionLogin(sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := sessions.Login(r.Context(), payload.Username, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessionResponse{
			Authenticated: sessions.IsAuthenticated(r.Context()),
			AdminScope:    sessions.HasRequiredScope(r.Context()),
		})
	}
}

// SessionLogout clears the stored session.
func SessionLogout(sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// SessionStatus reports the current authentication state, recomputed from the
// stored token on every call.
func SessionStatus(sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sessionResponse{
			Authenticated: sessions.IsAuthenticated(r.Context()),
			AdminScope:    sessions.HasRequiredScope(r.Context()),
		})
	}
}
