// Package api is the typed client for the storefront backend HTTP API.
// Every method returns either a typed payload or a normalized *Error; the
// client never retries on its own because order and payment creation are not
// idempotent without a server-side idempotency key.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Json604/labubu-ecom/internal/auth"
	"github.com/Json604/labubu-ecom/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	BaseURL     string
	Credentials auth.Store
	Timeout     time.Duration
	HTTPClient  *http.Client // optional, mainly for tests
}

type Client struct {
	baseURL string
	creds   auth.Store
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name: "storefront-backend",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 10 * time.Second,
	})
	return &Client{
		baseURL: cfg.BaseURL,
		creds:   cfg.Credentials,
		http:    hc,
		breaker: breaker,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account and stores the returned credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	var out authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	if err := c.creds.Save(out.Token, out.User); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}
	return out.User, nil
}

// Login exchanges email/password for a bearer credential and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var out authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	if err := c.creds.Save(out.Token, out.User); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}
	return out.User, nil
}

// Logout drops the local credential. Purely local, the backend keeps no
// session state for bearer tokens.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// Me fetches the authenticated user's profile and refreshes the stored
// copy, so a stale local profile catches up with the backend.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if token := c.creds.Token(); token != "" {
		if err := c.creds.Save(token, &out); err != nil {
			return nil, fmt.Errorf("failed to refresh stored profile: %w", err)
		}
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context, page, size int) (*domain.ProductPage, error) {
	var out domain.ProductPage
	path := "/api/products?" + pageQuery(page, size)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cart(ctx context.Context) ([]domain.CartItem, error) {
	var out []domain.CartItem
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*domain.CartItem, error) {
	var out domain.CartItem
	body := map[string]any{"productId": productID, "quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/clear", nil, nil)
}

// CreateOrder snapshots the server-side cart into a new CREATED order and
// clears the cart as a side effect.
func (c *Client) CreateOrder(ctx context.Context) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Order fetches the authoritative order state, payment info included.
func (c *Client) Order(ctx context.Context, orderID string) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Orders(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	var out domain.OrderPage
	path := "/api/orders?" + pageQuery(page, size)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var out domain.Order
	path := "/api/orders/" + url.PathEscape(orderID) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment asks the backend for a payment intent on the given order.
// The backend returns the existing intent while a PENDING attempt is active.
func (c *Client) CreatePayment(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	var out domain.PaymentIntent
	body := map[string]string{"orderId": orderID}
	if err := c.do(ctx, http.MethodPost, "/api/payments/create", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentWebhookTest simulates the provider's server-to-server confirmation.
// In production this call is replaced by a signed webhook from the provider;
// it exists on the contract boundary and is kept client-callable only for
// that reason.
func (c *Client) PaymentWebhookTest(ctx context.Context, providerOrderRef, status string) error {
	body := map[string]string{"providerOrderRef": providerOrderRef, "status": status}
	return c.do(ctx, http.MethodPost, "/api/webhooks/payment/test", body, nil)
}

// errorResponse mirrors the backend's error body.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &Error{Kind: KindNetwork, Message: "backend temporarily unavailable"}
		}
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServer, Message: "malformed response body", HTTPStatus: resp.StatusCode}
		}
		return nil
	}

	msg := "request failed with status " + strconv.Itoa(resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var errBody errorResponse
	if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
		msg = errBody.Error
	}

	kind := kindForStatus(resp.StatusCode)
	if kind == KindAuthRequired {
		// The credential was rejected; clear it so the caller is routed to
		// re-authenticate instead of retrying with the same token.
		_ = c.creds.Clear()
	}
	return &Error{Kind: kind, Message: msg, HTTPStatus: resp.StatusCode}
}

func pageQuery(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q.Encode()
}
