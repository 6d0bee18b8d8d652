package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brewpoint/kiosk/api/responses"
	"github.com/brewpoint/kiosk/api/validators"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/menuapi"
)

// dropRejectedSession clears the stored token when a backend refused it. The
// next guard check then fails fast instead of replaying a dead token.
func dropRejectedSession(ctx context.Context, sessions *sessionsvc.Service, err error) {
	if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) || pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		sessions.Invalidate(ctx)
	}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// AdminCategoryCreate adds a menu category via the menu service.
func AdminCategoryCreate(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := menu.CreateCategory(r.Context(), sessions.Token(r.Context()), menuapi.CategoryInput{Name: payload.Name})
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminCategoryUpdate replaces a category.
func AdminCategoryUpdate(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := menuapi.CategoryInput{ID: chi.URLParam(r, "categoryId"), Name: payload.Name}
		updated, err := menu.UpdateCategory(r.Context(), sessions.Token(r.Context()), input)
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminCategoryDelete removes a category.
func AdminCategoryDelete(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := menu.DeleteCategory(r.Context(), sessions.Token(r.Context()), chi.URLParam(r, "categoryId"))
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type productRequest struct {
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	CategoryID string          `json:"category_id" validate:"required"`
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := menuapi.ProductInput{
			Name:       payload.Name,
			Price:      payload.Price,
			CategoryID: payload.CategoryID,
		}
		created, err := menu.CreateProduct(r.Context(), sessions.Token(r.Context()), input)
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminProductUpdate replaces a product.
func AdminProductUpdate(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := menuapi.ProductInput{
			ID:         chi.URLParam(r, "productId"),
			Name:       payload.Name,
			Price:      payload.Price,
			CategoryID: payload.CategoryID,
		}
		updated, err := menu.UpdateProduct(r.Context(), sessions.Token(r.Context()), input)
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminProductDelete removes a product.
func AdminProductDelete(menu *menuapi.Client, sessions *sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := menu.DeleteProduct(r.Context(), sessions.Token(r.Context()), chi.URLParam(r, "productId"))
		if err != nil {
			dropRejectedSession(r.Context(), sessions, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
