package menuapi

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

	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
	"github.com/brewpoint/kiosk/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	categoryPath = "menu/api/Category"
	productPath  = "menu/api/Product"

	errorBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("menu service base url is required")

// Category is a menu category as served by the menu service.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a purchasable menu entry.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"categoryId"`
}

// CategoryInput is the admin payload for creating or updating a category.
type CategoryInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"categoryId"`
}

// Client wraps the remote menu service. Catalog reads are public; category and
// product writes require an admin bearer token supplied per call.
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

// NewClient builds a menu service client for the given base URL.
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

// ListCategories fetches every menu category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, "list_categories", http.MethodGet, categoryPath, "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListProducts fetches the products belonging to a category.
func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]Product, error) {
	trimmed := strings.TrimSpace(categoryID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var products []Product
	path := fmt.Sprintf("%s/%s", productPath, url.PathEscape(trimmed))
	if err := c.do(ctx, "list_products", http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateCategory adds a category (admin).
func (c *Client) CreateCategory(ctx context.Context, token string, input CategoryInput) (*Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	var created Category
	if err := c.do(ctx, "create_category", http.MethodPost, categoryPath, token, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory replaces a category (admin).
func (c *Client) UpdateCategory(ctx context.Context, token string, input CategoryInput) (*Category, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var updated Category
	if err := c.do(ctx, "update_category", http.MethodPut, categoryPath, token, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category (admin).
func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	trimmed := strings.TrimSpace(categoryID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	path := fmt.Sprintf("%s/%s", categoryPath, url.PathEscape(trimmed))
	return c.do(ctx, "delete_category", http.MethodDelete, path, token, nil, nil)
}

// CreateProduct adds a product (admin).
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	if err := validateProductInput(input, false); err != nil {
		return nil, err
	}
	var created Product
	if err := c.do(ctx, "create_product", http.MethodPost, productPath, token, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a product (admin).
func (c *Client) UpdateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	if err := validateProductInput(input, true); err != nil {
		return nil, err
	}
	var updated Product
	if err := c.do(ctx, "update_product", http.MethodPut, productPath, token, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product (admin).
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	trimmed := strings.TrimSpace(productID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	path := fmt.Sprintf("%s/%s", productPath, url.PathEscape(trimmed))
	return c.do(ctx, "delete_product", http.MethodDelete, path, token, nil, nil)
}

func validateProductInput(input ProductInput, requireID bool) error {
	if requireID && strings.TrimSpace(input.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal menu request")
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build menu request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackend("menu", operation, time.Since(start))
	if err != nil {
		c.metrics.IncBackendFailure("menu", operation)
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "menu service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncBackendFailure("menu", operation)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.FromStatus(resp.StatusCode,
			fmt.Sprintf("menu service: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode menu response")
	}
	return nil
}
