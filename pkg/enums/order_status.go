package enums

import "fmt"

// OrderStatus mirrors the order service's integer status scheme.
type OrderStatus int

const (
	OrderStatusCreated   OrderStatus = 0
	OrderStatusPreparing OrderStatus = 1
	OrderStatusReady     OrderStatus = 2
	OrderStatusDelivered OrderStatus = 3
	OrderStatusCancelled OrderStatus = 4
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusCreated:   "created",
	OrderStatusPreparing: "preparing",
	OrderStatusReady:     "ready",
	OrderStatusDelivered: "delivered",
	OrderStatusCancelled: "cancelled",
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// ParseOrderStatus converts the backend's integer code into an OrderStatus.
func ParseOrderStatus(value int) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid order status %d", value)
	}
	return status, nil
}
