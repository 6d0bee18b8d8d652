package auth

import (
	"strings"

	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// DecodeToken parses the bearer token WITHOUT verifying its signature. This is
// a UI-gating convenience only: the backend independently enforces
// authorization on every protected call, so a forged token buys nothing but a
// rendered admin shell full of failing requests.
func DecodeToken(tokenString string) (*TokenClaims, error) {
	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeAuthDecode, "empty token")
	}

	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(trimmed, claims); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthDecode, err, "malformed token")
	}
	return claims, nil
}
