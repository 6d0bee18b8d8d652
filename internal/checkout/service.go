package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/brewpoint/kiosk/internal/cart"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/orderapi"
	"github.com/shopspring/decimal"
)

// orderCreator is the slice of the order client checkout needs.
type orderCreator interface {
	Create(ctx context.Context, input orderapi.CreateOrderInput) (*orderapi.Order, error)
}

// customerIdentity supplies the backend customer id for the order payload.
type customerIdentity interface {
	BackendID(ctx context.Context) string
}

// cartReader exposes the cart lines being purchased.
type cartReader interface {
	Items() []cart.LineItem
}

// Receipt is what a successful submission hands back to the caller.
type Receipt struct {
	OrderID string
	Total   decimal.Decimal
}

// Service turns the current cart into an order submission. At most one
// submission runs at a time; the cart is left untouched on failure so the
// customer can retry or edit, and clearing it on success is the caller's
// responsibility once the receipt is shown.
type Service struct {
	orders   orderCreator
	identity customerIdentity
	cart     cartReader
	logg     *logger.Logger
	inFlight atomic.Bool
}

// NewService builds the checkout service, validating its dependencies.
func NewService(orders orderCreator, identity customerIdentity, cartStore cartReader, logg *logger.Logger) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order client is required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity manager is required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	return &Service{orders: orders, identity: identity, cart: cartStore, logg: logg}, nil
}

// Submit validates the cart and address, builds the multi-line order payload,
// and performs exactly one create call. Validation failures never reach the
// network.
func (s *Service) Submit(ctx context.Context, addressText string) (*Receipt, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
	}
	defer s.inFlight.Store(false)

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(addressText) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	customerID := s.identity.BackendID(ctx)
	if strings.TrimSpace(customerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity unavailable")
	}

	total := decimal.Zero
	lines := make([]orderapi.OrderLine, 0, len(items))
	for _, item := range items {
		total = total.Add(item.LineTotal())
		lines = append(lines, orderapi.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.DisplayName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	order, err := s.orders.Create(ctx, orderapi.CreateOrderInput{
		CustomerID:  customerID,
		AddressText: strings.TrimSpace(addressText),
		Items:       lines,
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"lines":    len(lines),
		}), "order submitted")
	}
	return &Receipt{OrderID: order.ID, Total: total}, nil
}
