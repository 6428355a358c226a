// Package payments creates hosted checkout sessions with the external
// payment processor. The processor remains an external collaborator:
// this client only exchanges a validated cart for a redirect URL and
// never sees card data.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LineItem is one cart entry. Amount is in the currency's minor unit
// (cents) to avoid floating-point money.
type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

// SessionRequest describes the checkout to create.
type SessionRequest struct {
	Items         []LineItem `json:"items"`
	SuccessURL    string     `json:"success_url"`
	CancelURL     string     `json:"cancel_url"`
	CustomerEmail string     `json:"customer_email,omitempty"`
}

// Session is the processor's hosted checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Config holds the configuration for the payment client.
type Config struct {
	// Endpoint is the processor's session-creation URL.
	Endpoint string
	// SecretKey authenticates this merchant with the processor.
	SecretKey  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client creates checkout sessions.
type Client struct {
	endpoint string
	secret   string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a payment client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		secret:   cfg.SecretKey,
		http:     httpClient,
		logger:   logger,
	}
}

// Validate checks the request before it leaves the process.
func (r SessionRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("cart is empty")
	}
	for i, item := range r.Items {
		if item.Name == "" {
			return fmt.Errorf("item %d has no name", i)
		}
		if item.Amount <= 0 {
			return fmt.Errorf("item %q has a non-positive amount", item.Name)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q has a non-positive quantity", item.Name)
		}
		if item.Currency == "" {
			return fmt.Errorf("item %q has no currency", item.Name)
		}
	}
	if r.SuccessURL == "" || r.CancelURL == "" {
		return fmt.Errorf("success and cancel URLs are required")
	}
	return nil
}

// CreateSession exchanges the cart for a hosted checkout session.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, fmt.Errorf("invalid checkout request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Session{}, fmt.Errorf("failed to serialize checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Session{}, fmt.Errorf("processor unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, fmt.Errorf("processor returned %s", resp.Status)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.URL == "" {
		return Session{}, fmt.Errorf("processor returned a session without a URL")
	}
	return session, nil
}
