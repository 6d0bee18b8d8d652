package middleware

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/internal/session"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
)

// RequireAdmin gates a route group behind the admin session. Every request
// gets a fresh guard check so an expired token is rejected on its first use,
// not on the next restart.
func RequireAdmin(guard *session.Guard, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			check := guard.NewCheck()
			if check.Evaluate(r.Context()) != session.GuardAuthorized {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
