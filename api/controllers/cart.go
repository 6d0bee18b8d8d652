package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/api/validators"
	cartsvc "github.com/brewpoint/kiosk/internal/cart"
	"github.com/brewpoint/kiosk/pkg/logger"
)

type cartLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartResponse struct {
	Items []cartLineResponse `json:"items"`
	Total string             `json:"total"`
}

func newCartResponse(items []cartsvc.LineItem) cartResponse {
	lines := make([]cartLineResponse, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		lineTotal := item.LineTotal()
		total = total.Add(lineTotal)
		lines = append(lines, cartLineResponse{
			ProductID: item.ProductID,
			Name:      item.DisplayName,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	return cartResponse{Items: lines, Total: total.StringFixed(2)}
}

// CartFetch returns the current cart snapshot.
func CartFetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}

type addCartItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// CartAddItem adds a product to the cart, or bumps its quantity when it is
// already there.
func CartAddItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.AddItem(r.Context(), payload.ProductID, payload.Name, payload.UnitPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}

// CartIncrease bumps the quantity of an existing line by one.
func CartIncrease(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.IncreaseQuantity(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}

// CartDecrease lowers the quantity of an existing line by one, removing it at
// zero.
func CartDecrease(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DecreaseQuantity(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}

// CartRemoveItem drops a line regardless of quantity.
func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.RemoveItem(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}

// CartClear empties the cart.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Items()))
	}
}
