package menuapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, srv
}

func TestListCategoriesHitsNormalizedPath(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/menu/api/Category" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Category{{ID: "c1", Name: "Coffee"}})
	}))

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Coffee" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestListProductsByCategory(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/menu/api/Product/c1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Product{{ID: "p1", Name: "Latte", CategoryID: "c1"}})
	}))

	products, err := client.ListProducts(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", products)
	}

	if _, err := client.ListProducts(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank category, got %v", err)
	}
}

func TestAdminWritesCarryBearerToken(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var input CategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Category{ID: "c9", Name: input.Name})
	}))

	created, err := client.CreateCategory(context.Background(), "tok-1", CategoryInput{Name: "Tea"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "c9" {
		t.Fatalf("unexpected category %+v", created)
	}
}

func TestStatusClassMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		_, err := client.ListCategories(context.Background())
		if !pkgerrors.IsCode(err, tc.want) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.want, err)
		}
	}
}

func TestNetworkFailureIsNetworkCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.ListCategories(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
