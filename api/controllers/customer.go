package controllers

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/internal/identity"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
)

type customerResponse struct {
	LocalID   string `json:"local_id"`
	BackendID string `json:"backend_id"`
}

// Customer returns both customer identifiers, generating them on first use.
func Customer(ident *identity.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, customerResponse{
			LocalID:   ident.LocalID(r.Context()),
			BackendID: ident.BackendID(r.Context()),
		})
	}
}

// CustomerReset discards both identifiers. Meant for counter staff handing the
// kiosk to a new walk-up customer; order history under the old backend id
// becomes unreachable.
func CustomerReset(ident *identity.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ident.Reset(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reset identity"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
