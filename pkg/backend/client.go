// Package backend is the HTTP client for the boutique REST API, the
// upstream authority for products, delivery rates, promo validation
// and order creation.
package backend

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

	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("backend base url is required")

// Client talks to the boutique API over HTTP JSON.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// GetProduct fetches the product detail, including its stock rows.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/products/%d", productID), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListDeliveryRates returns every configured per-wilaya rate.
func (c *Client) ListDeliveryRates(ctx context.Context) ([]DeliveryRate, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var rates []DeliveryRate
	if err := c.getJSON(ctx, "/api/livraisons", &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// GetDeliveryRate returns the rate for a single wilaya.
func (c *Client) GetDeliveryRate(ctx context.Context, wilaya string) (*DeliveryRate, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}
	trimmed := strings.TrimSpace(wilaya)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wilaya is required")
	}

	var rate DeliveryRate
	if err := c.getJSON(ctx, "/api/livraisons/"+url.PathEscape(trimmed), &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

// VerifyPromo asks the upstream API to validate a promo code. An
// invalid code surfaces as a validation error carrying the server's
// rejection message verbatim.
func (c *Client) VerifyPromo(ctx context.Context, code string) (*Promo, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	var verified verifyPromoResponse
	if err := c.postJSON(ctx, "/api/promo/verify", verifyPromoRequest{Code: trimmed}, &verified); err != nil {
		return nil, err
	}

	if !verified.Valid || verified.Promo == nil {
		message := verified.Message
		if message == "" {
			message = "promo code rejected"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, message)
	}

	promo := *verified.Promo
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return &promo, nil
}

// CreateOrder submits the checkout payload and returns the new order id.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}
	if len(order.Articles) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one article")
	}

	var created OrderResponse
	if err := c.postJSON(ctx, "/api/orders", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	return c.do(req, dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found upstream")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, upstreamMessage(msg))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "upstream request failed")
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

// upstreamMessage pulls the server-provided message out of a 4xx body
// so the shopper sees it verbatim, with a generic fallback.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return "upstream rejected the request"
}
