package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brewpoint/kiosk/pkg/authapi"
	"github.com/brewpoint/kiosk/pkg/config"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/state"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return signed
}

func newTestService(t *testing.T, st state.Store, issuer *authapi.Client, now time.Time) *Service {
	t.Helper()
	if issuer == nil {
		var err error
		issuer, err = authapi.NewClient(config.AuthConfig{TokenURL: "http://127.0.0.1:0/connect/token"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	svc, err := NewService(Params{
		Store:         st,
		Issuer:        issuer,
		RequiredScope: "cafe.admin",
		Now:           func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestIsAuthenticatedHappyPath(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	now := time.Now()
	ctx := context.Background()

	token := signToken(t, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   now.Add(time.Hour).Unix(),
	})
	if err := st.Set(ctx, state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, now)
	if !svc.IsAuthenticated(ctx) {
		t.Fatalf("expected authenticated session")
	}
	if !svc.HasRequiredScope(ctx) {
		t.Fatalf("expected admin scope")
	}
}

func TestIsAuthenticatedRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	now := time.Now()
	ctx := context.Background()

	token := signToken(t, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   now.Add(-time.Minute).Unix(),
	})
	if err := st.Set(ctx, state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, now)
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("expired token must not authenticate")
	}
	// Scope is still readable on an expired token.
	if !svc.HasRequiredScope(ctx) {
		t.Fatalf("scope check should ignore expiry")
	}
}

func TestIsAuthenticatedRejectsWrongScope(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	now := time.Now()
	ctx := context.Background()

	token := signToken(t, jwt.MapClaims{
		"scope": "cafe.menu.read",
		"exp":   now.Add(time.Hour).Unix(),
	})
	if err := st.Set(ctx, state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, now)
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("token without the admin scope must not authenticate")
	}
}

func TestIsAuthenticatedAcceptsScpListClaim(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	now := time.Now()
	ctx := context.Background()

	token := signToken(t, jwt.MapClaims{
		"scp": []string{"openid", "cafe.admin"},
		"exp": now.Add(time.Hour).Unix(),
	})
	if err := st.Set(ctx, state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, now)
	if !svc.IsAuthenticated(ctx) {
		t.Fatalf("scp list claim should authenticate")
	}
}

func TestMalformedTokenDoesNotAuthenticate(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	ctx := context.Background()
	if err := st.Set(ctx, state.AccessTokenKey, "not-a-jwt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, time.Now())
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("malformed token must not authenticate")
	}
	if _, err := svc.Claims(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeAuthDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issued := signToken(t, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   now.Add(time.Hour).Unix(),
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "password" {
			t.Errorf("expected password grant, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": issued,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	issuer, err := authapi.NewClient(config.AuthConfig{TokenURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := state.NewMemory()
	svc := newTestService(t, st, issuer, now)
	ctx := context.Background()

	if err := svc.Login(ctx, "admin", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.IsAuthenticated(ctx) {
		t.Fatalf("expected authenticated session after login")
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("expected unauthenticated session after logout")
	}
}

func TestInvalidateDropsSession(t *testing.T) {
	t.Parallel()

	st := state.NewMemory()
	now := time.Now()
	ctx := context.Background()

	token := signToken(t, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   now.Add(time.Hour).Unix(),
	})
	if err := st.Set(ctx, state.AccessTokenKey, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestService(t, st, nil, now)
	svc.Invalidate(ctx)
	if svc.Token(ctx) != "" {
		t.Fatalf("expected token cleared after invalidate")
	}
}
