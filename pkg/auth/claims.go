package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims carries the subset of bearer-token claims the kiosk gates on.
// Scope may arrive either as a delimited string or as a list, under "scope"
// or "scp" depending on the issuer.
type TokenClaims struct {
	Scope any `json:"scope,omitempty"`
	Scp   any `json:"scp,omitempty"`
	jwt.RegisteredClaims
}

// Scopes normalizes the scope claim into a flat list.
func (c *TokenClaims) Scopes() []string {
	raw := c.Scope
	if raw == nil {
		raw = c.Scp
	}

	switch value := raw.(type) {
	case string:
		return splitScopes(value)
	case []any:
		scopes := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
				scopes = append(scopes, strings.TrimSpace(s))
			}
		}
		return scopes
	case []string:
		return value
	default:
		return nil
	}
}

// HasScope reports whether the token carries the required scope value.
func (c *TokenClaims) HasScope(required string) bool {
	required = strings.TrimSpace(required)
	if required == "" {
		return false
	}
	for _, scope := range c.Scopes() {
		if scope == required {
			return true
		}
	}
	return false
}

// IsExpired reports whether the exp claim is absent or in the past. A token
// without an expiry is treated as expired rather than immortal.
func (c *TokenClaims) IsExpired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Before(now)
}

func splitScopes(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ','
	})
	scopes := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != "" {
			scopes = append(scopes, field)
		}
	}
	return scopes
}
