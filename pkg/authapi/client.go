package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brewpoint/kiosk/pkg/config"
	pkgerrors "github.com/brewpoint/kiosk/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var errTokenURLRequired = errors.New("auth token url is required")

// TokenResponse is the token endpoint's success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Client wraps the auth service's token endpoint (password grant).
type Client struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
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

// NewClient builds a token-endpoint client from the auth configuration.
func NewClient(cfg config.AuthConfig, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(cfg.TokenURL)
	if trimmed == "" {
		return nil, errTokenURLRequired
	}

	client := &Client{
		tokenURL:     trimmed,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Token exchanges admin credentials for a bearer token using the password
// grant, form-encoded exactly as the auth service expects.
func (c *Client) Token(ctx context.Context, username, password, scope string) (*TokenResponse, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "auth service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		var payload tokenError
		message := "login failed"
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.ErrorDescription != "" {
				message = payload.ErrorDescription
			} else if payload.Error != "" {
				message = payload.Error
			}
		}
		if resp.StatusCode >= 500 {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, message)
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode token response")
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "token response missing access_token")
	}
	return &token, nil
}
