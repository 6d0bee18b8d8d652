package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cartsvc "github.com/brewpoint/kiosk/internal/cart"
	checkoutsvc "github.com/brewpoint/kiosk/internal/checkout"
	"github.com/brewpoint/kiosk/internal/identity"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	"github.com/brewpoint/kiosk/pkg/authapi"
	"github.com/brewpoint/kiosk/pkg/config"
	"github.com/brewpoint/kiosk/pkg/menuapi"
	"github.com/brewpoint/kiosk/pkg/orderapi"
	"github.com/brewpoint/kiosk/pkg/state"
)

func newTestRouter(t *testing.T, backend *httptest.Server, st state.Store) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		Auth: config.AuthConfig{
			TokenURL:      backend.URL + "/connect/token",
			ClientID:      "admin-client",
			ClientSecret:  "admin-secret",
			RequiredScope: "cafe.admin",
		},
	}

	menuClient, err := menuapi.NewClient(backend.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderClient, err := orderapi.NewClient(backend.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authClient, err := authapi.NewClient(cfg.Auth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identityManager, err := identity.NewManager(st, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cartStore, err := cartsvc.NewStore(context.Background(), st, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(orderClient, identityManager, cartStore, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sessions, err := sessionsvc.NewService(sessionsvc.Params{
		Store:         st,
		Issuer:        authClient,
		RequiredScope: cfg.Auth.RequiredScope,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return NewRouter(cfg, nil, st, menuClient, orderClient, cartStore, checkoutService, identityManager, sessions, nil)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()
	router := newTestRouter(t, backend, state.NewMemory())

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", path, rec.Code)
		}
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]orderapi.Order{})
	}))
	defer backend.Close()

	st := state.NewMemory()
	router := newTestRouter(t, backend, st)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.Set(context.Background(), state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid session, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerEndpointGeneratesIdentity(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()
	router := newTestRouter(t, backend, state.NewMemory())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/customer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			LocalID   string `json:"local_id"`
			BackendID string `json:"backend_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if envelope.Data.LocalID == "" || envelope.Data.BackendID == "" {
		t.Fatalf("expected both identifiers, got %+v", envelope.Data)
	}
}
