package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/api/validators"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	"github.com/brewpoint/kiosk/pkg/enums"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/orderapi"
)

// AdminOrderList returns every order in the system.
func AdminOrderList(orders *orderapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := orders.List(r.Context(), sessions.Token(r.Context()))
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

// AdminOrderDetail returns one order by id.
func AdminOrderDetail(orders *orderapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := orders.Get(r.Context(), sessions.Token(r.Context()), chi.URLParam(r, "orderId"))
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type orderStatusRequest struct {
	Status int `json:"status"`
}

// AdminOrderStatus moves an order through its lifecycle.
func AdminOrderStatus(orders *orderapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}
		if err := orders.UpdateStatus(r.Context(), sessions.Token(r.Context()), chi.URLParam(r, "orderId"), status); err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": status.String()})
	}
}

// AdminOrderDelete removes an order.
func AdminOrderDelete(orders *orderapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orders.Delete(r.Context(), sessions.Token(r.Context()), chi.URLParam(r, "orderId")); err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
