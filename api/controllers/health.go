package controllers

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/pkg/config"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/state"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kiosk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the durable state store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, store state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kiosk-Env", cfg.App.Env)
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "state store not ready"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
