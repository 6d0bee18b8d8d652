package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/state"
	"github.com/google/uuid"
)

const localIDPrefix = "customer"

// Manager owns the two customer identifiers: a human-debuggable local id and
// the UUID the order service expects as its customerId foreign key. Both are
// generated once and reused for the lifetime of the state store.
type Manager struct {
	store state.Store
	logg  *logger.Logger
}

// NewManager builds an identity manager over the durable state store.
func NewManager(store state.Store, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("state store is required")
	}
	return &Manager{store: store, logg: logg}, nil
}

// LocalID returns the persisted local customer id, generating and persisting
// one on first use. Storage failures are treated as "absent": the caller gets
// a fresh id and the kiosk keeps working with a degraded, possibly
// non-sticky identity.
func (m *Manager) LocalID(ctx context.Context) string {
	return m.getOrCreate(ctx, state.LocalCustomerKey, newLocalID)
}

// BackendID returns the persisted backend customer id (UUID v4), generating
// one on first use. There is no registration flow; this client-side UUID is
// the customer's identity as far as the order service is concerned.
func (m *Manager) BackendID(ctx context.Context) string {
	return m.getOrCreate(ctx, state.BackendCustomerKey, uuid.NewString)
}

// Reset removes both identifiers. Only explicit reset flows call this;
// ordinary navigation never regenerates an identity.
func (m *Manager) Reset(ctx context.Context) error {
	var failed []string
	for _, key := range []string{state.LocalCustomerKey, state.BackendCustomerKey} {
		if err := m.store.Delete(ctx, key); err != nil {
			failed = append(failed, key)
			m.warn(ctx, "failed to clear customer identity", err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("clearing identity keys %s", strings.Join(failed, ", "))
	}
	return nil
}

func (m *Manager) getOrCreate(ctx context.Context, key string, generate func() string) string {
	existing, err := m.store.Get(ctx, key)
	if err == nil && strings.TrimSpace(existing) != "" {
		return existing
	}
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		m.warn(ctx, "identity read failed, generating fresh id", err)
	}

	id := generate()
	if err := m.store.Set(ctx, key, id); err != nil {
		// Degraded: the id is served but may not survive a restart.
		m.warn(ctx, "identity persist failed", err)
	}
	return id
}

func (m *Manager) warn(ctx context.Context, msg string, err error) {
	if m.logg == nil {
		return
	}
	m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), msg)
}

func newLocalID() string {
	return fmt.Sprintf("%s-%d-%s", localIDPrefix, time.Now().UnixMilli(), randomBase36(9))
}

func randomBase36(length int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand exhaustion is not survivable in any useful way here.
			out[i] = alphabet[0]
			continue
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
