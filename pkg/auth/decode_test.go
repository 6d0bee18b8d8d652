package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return token
}

func TestDecodeTokenIgnoresSignature(t *testing.T) {
	t.Parallel()

	token := signed(t, jwt.MapClaims{
		"scope": "cafe.admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claims.HasScope("cafe.admin") {
		t.Fatalf("expected admin scope, got %v", claims.Scopes())
	}
	if claims.IsExpired(time.Now()) {
		t.Fatalf("token should not be expired")
	}
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "abc", "a.b"} {
		if _, err := DecodeToken(input); !pkgerrors.IsCode(err, pkgerrors.CodeAuthDecode) {
			t.Fatalf("input %q: expected decode error, got %v", input, err)
		}
	}
}

func TestScopesNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"space separated string", jwt.MapClaims{"scope": "openid cafe.admin"}, "cafe.admin"},
		{"comma separated string", jwt.MapClaims{"scope": "openid,cafe.admin"}, "cafe.admin"},
		{"scp list", jwt.MapClaims{"scp": []string{"openid", "cafe.admin"}}, "cafe.admin"},
		{"scp string", jwt.MapClaims{"scp": "cafe.admin"}, "cafe.admin"},
	}
	for _, tc := range cases {
		claims, err := DecodeToken(signed(t, tc.claims))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !claims.HasScope(tc.want) {
			t.Fatalf("%s: expected scope %q in %v", tc.name, tc.want, claims.Scopes())
		}
	}
}

func TestMissingExpiryIsExpired(t *testing.T) {
	t.Parallel()

	claims, err := DecodeToken(signed(t, jwt.MapClaims{"scope": "cafe.admin"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claims.IsExpired(time.Now()) {
		t.Fatalf("token without exp must be treated as expired")
	}
}
