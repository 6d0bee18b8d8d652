package state

import (
	"context"
	"errors"
	"strings"
)

const keyNamespace = "kiosk"

// ErrNotFound signals that a key has never been written or was deleted.
var ErrNotFound = errors.New("state: key not found")

// Store is the durable key-value substrate backing all client-side state.
// It is the kiosk analogue of the browser's local storage: writes survive
// process restarts and no component outside the owning store may touch
// another store's keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Well-known keys. Ownership: the cart store owns CartKey, the identity
// manager owns the customer keys, the session service owns AccessTokenKey.
var (
	CartKey            = buildKey("cart")
	LocalCustomerKey   = buildKey("customer", "local_id")
	BackendCustomerKey = buildKey("customer", "backend_id")
	AccessTokenKey     = buildKey("session", "access_token")
)

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
