package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brewpoint/kiosk/pkg/enums"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	orderPath = "order/api/Order"

	errorBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("order service base url is required")

// OrderLine is one product row within an order.
type OrderLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Order is the order service's representation of a placed order.
type Order struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customerId"`
	AddressText string            `json:"addressText"`
	Status      enums.OrderStatus `json:"status"`
	Items       []OrderLine       `json:"items"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CreateOrderInput is the payload accepted by the order-creation endpoint.
// The customer id travels in the body; the endpoint itself is unauthenticated.
type CreateOrderInput struct {
	CustomerID  string      `json:"customerId"`
	AddressText string      `json:"addressText"`
	Items       []OrderLine `json:"items"`
}

// Client wraps the remote order service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.KioskMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics attaches backend call instrumentation.
func WithMetrics(m *metrics.KioskMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds an order service client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Create submits a new order. The call is made exactly once; retrying after a
// network failure is left to the user because the backend has no idempotency
// protection and a blind retry could double-charge the counter.
func (c *Client) Create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	var created Order
	if err := c.do(ctx, "create_order", http.MethodPost, orderPath, "", input, &created); err != nil {
		return nil, err
	}
	c.metrics.IncOrderSubmitted()
	return &created, nil
}

// ListByCustomer returns the order history for one customer.
func (c *Client) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	trimmed := strings.TrimSpace(customerID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	var orders []Order
	path := fmt.Sprintf("%s/customer/%s", orderPath, url.PathEscape(trimmed))
	if err := c.do(ctx, "list_customer_orders", http.MethodGet, path, "", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns every order (admin).
func (c *Client) List(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "list_orders", http.MethodGet, orderPath, token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns one order by id (admin).
func (c *Client) Get(ctx context.Context, token, orderID string) (*Order, error) {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var order Order
	path := fmt.Sprintf("%s/%s", orderPath, url.PathEscape(trimmed))
	if err := c.do(ctx, "get_order", http.MethodGet, path, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order through its lifecycle (admin).
func (c *Client) UpdateStatus(ctx context.Context, token, orderID string, status enums.OrderStatus) error {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	path := fmt.Sprintf("%s/%s/status", orderPath, url.PathEscape(trimmed))
	payload := map[string]int{"status": int(status)}
	return c.do(ctx, "update_order_status", http.MethodPut, path, token, payload, nil)
}

// Delete removes an order (admin).
func (c *Client) Delete(ctx context.Context, token, orderID string) error {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	path := fmt.Sprintf("%s/%s", orderPath, url.PathEscape(trimmed))
	return c.do(ctx, "delete_order", http.MethodDelete, path, token, nil, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal order request")
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackend("order", operation, time.Since(start))
	if err != nil {
		c.metrics.IncBackendFailure("order", operation)
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "order service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncBackendFailure("order", operation)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.FromStatus(resp.StatusCode,
			fmt.Sprintf("order service: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	return nil
}
