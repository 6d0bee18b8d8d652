package controllers

import (
	"net/http"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/api/validators"
	cartsvc "github.com/brewpoint/kiosk/internal/cart"
	checkoutsvc "github.com/brewpoint/kiosk/internal/checkout"
	"github.com/brewpoint/kiosk/pkg/logger"
)

type checkoutRequest struct {
	AddressText string `json:"address_text" validate:"required"`
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
}

// Checkout submits the cart as an order. The cart is cleared only after the
// order service has accepted the submission; any failure leaves the cart
// intact so the customer can retry.
func Checkout(svc *checkoutsvc.Service, cartStore *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), payload.AddressText)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := cartStore.Clear(r.Context()); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "order_id", receipt.OrderID), "cart clear after checkout failed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID: receipt.OrderID,
			Total:   receipt.Total.StringFixed(2),
		})
	}
}
