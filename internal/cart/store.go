package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/metrics"
	"github.com/brewpoint/kiosk/pkg/state"
	"github.com/shopspring/decimal"
)

// SchemaVersion tags the persisted cart blob. Version 1 carried an untrusted
// sentinel price and cannot be migrated field-by-field; anything older than
// the current version loads as an empty cart.
const SchemaVersion = 2

// LineItem is one product row in the cart. DisplayName and UnitPrice are
// fixed at first add: the customer keeps the price they saw even if the
// catalog changes afterwards.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	DisplayName string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal returns unit price times quantity at full precision.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type envelope struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Subscriber receives a snapshot after every committed mutation.
type Subscriber func(items []LineItem)

// Store is the observable cart state container. It is the single in-memory
// source of truth; every mutation is written through to the durable state
// store before the call returns. All methods are safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []LineItem

	state   state.Store
	logg    *logger.Logger
	metrics *metrics.KioskMetrics
	subs    []Subscriber
}

// NewStore loads the persisted cart (if any) and returns the store. A missing
// blob, a corrupt blob, or a stale schema version all yield an empty cart
// rather than an error.
func NewStore(ctx context.Context, st state.Store, logg *logger.Logger, m *metrics.KioskMetrics) (*Store, error) {
	if st == nil {
		return nil, fmt.Errorf("state store is required")
	}
	store := &Store{state: st, logg: logg, metrics: m}
	store.items = store.load(ctx)
	return store, nil
}

func (s *Store) load(ctx context.Context) []LineItem {
	raw, err := s.state.Get(ctx, state.CartKey)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			s.warn(ctx, "cart read failed, starting empty", err)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.warn(ctx, "cart blob corrupt, starting empty", err)
		return nil
	}
	if env.Version != SchemaVersion {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "stored_version", env.Version), "cart schema outdated, resetting")
		}
		return nil
	}

	items := make([]LineItem, 0, len(env.Items))
	for _, item := range env.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.UnitPrice.IsNegative() {
			s.warn(ctx, "dropping invalid persisted cart line", fmt.Errorf("product %q qty %d", item.ProductID, item.Quantity))
			continue
		}
		items = append(items, item)
	}
	return items
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// an existing line while leaving its name and price untouched.
func (s *Store) AddItem(ctx context.Context, productID, name string, price decimal.Decimal) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}

	s.mu.Lock()
	if idx := s.indexOf(productID); idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ProductID:   productID,
			DisplayName: name,
			UnitPrice:   price,
			Quantity:    1,
		})
	}
	snapshot := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.IncCartMutation("add")
	s.notify(snapshot)
	return nil
}

// IncreaseQuantity bumps an existing line by one. Unknown products are a
// no-op.
func (s *Store) IncreaseQuantity(ctx context.Context, productID string) error {
	return s.adjust(ctx, productID, 1, "increase")
}

// DecreaseQuantity lowers an existing line by one, removing the line entirely
// instead of leaving it at zero. Unknown products are a no-op.
func (s *Store) DecreaseQuantity(ctx context.Context, productID string) error {
	return s.adjust(ctx, productID, -1, "decrease")
}

func (s *Store) adjust(ctx context.Context, productID string, delta int, operation string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items[idx].Quantity += delta
	if s.items[idx].Quantity < 1 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	snapshot := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.IncCartMutation(operation)
	s.notify(snapshot)
	return nil
}

// RemoveItem deletes the line regardless of quantity. Unknown products are a
// no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.IncCartMutation("remove")
	s.notify(snapshot)
	return nil
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	snapshot := s.snapshotLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.IncCartMutation("clear")
	s.notify(snapshot)
	return nil
}

// Items returns a snapshot in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total sums unit price times quantity over all lines at full precision.
// Monetary rounding to two decimals happens only at presentation time.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// committed mutation. There is no unsubscribe; subscribers live as long as
// the store.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []LineItem {
	snapshot := make([]LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// persistLocked writes the current cart through to durable storage. A write
// failure degrades persistence but never fails the mutation: the in-memory
// state remains authoritative for this session.
func (s *Store) persistLocked(ctx context.Context) {
	payload, err := json.Marshal(envelope{Version: SchemaVersion, Items: s.items})
	if err != nil {
		s.warn(ctx, "cart marshal failed, skipping persist", err)
		return
	}
	if err := s.state.Set(ctx, state.CartKey, string(payload)); err != nil {
		s.warn(ctx, "cart persist failed", err)
	}
}

func (s *Store) notify(snapshot []LineItem) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *Store) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
