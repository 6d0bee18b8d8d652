package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/menuapi"
)

// MenuCategories proxies the public category list from the menu service.
func MenuCategories(menu *menuapi.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := menu.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// MenuProducts proxies the product list for one category.
func MenuProducts(menu *menuapi.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := chi.URLParam(r, "categoryId")
		products, err := menu.ListProducts(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
