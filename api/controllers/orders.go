package controllers

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/internal/identity"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/orderapi"
)

// OrderHistory returns the orders placed by this kiosk's customer.
func OrderHistory(orders *orderapi.Client, ident *identity.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := ident.BackendID(r.Context())
		history, err := orders.ListByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
