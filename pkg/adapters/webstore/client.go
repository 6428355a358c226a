// Package webstore implements core.RemoteStore against the content HTTP
// API: GET/PUT of the snapshot plus the companion sync-to-source
// endpoint. Reads prefer the public, unauthenticated variant of the
// fetch endpoint and fall back to the authenticated one.
package webstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stromabio/stroma/pkg/core"
)

// Config holds the configuration for a remote content client.
type Config struct {
	// BaseURL of the content API, e.g. "https://example.com".
	BaseURL string
	// ContentType selects the collection endpoint
	// ({BaseURL}/api/content/{ContentType}).
	ContentType string
	// Token authorizes writes and the authenticated read fallback.
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the remote content store for one content type.
type Client struct {
	base        string
	contentType string
	token       string
	http        *http.Client
	logger      *slog.Logger
}

// NewClient creates a remote content client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		contentType: cfg.ContentType,
		token:       cfg.Token,
		http:        httpClient,
		logger:      logger,
	}
}

func (c *Client) endpoint(suffix string) string {
	return fmt.Sprintf("%s/api/content/%s%s", c.base, c.contentType, suffix)
}

// Fetch retrieves the remote snapshot, trying the public read endpoint
// first so read access needs no credentials.
func (c *Client) Fetch(ctx context.Context) (*core.Snapshot, error) {
	snap, err := c.get(ctx, c.endpoint("/public"), false)
	if err == nil {
		return snap, nil
	}
	c.logger.Debug("public fetch failed, trying authenticated endpoint",
		"content", c.contentType, "error", err)
	return c.get(ctx, c.endpoint(""), true)
}

// Push replaces the remote snapshot.
func (c *Client) Push(ctx context.Context, snap core.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return c.send(ctx, http.MethodPut, c.endpoint(""), body)
}

// SyncSource sends the full reconstructed record list to the companion
// durable-storage endpoint.
func (c *Client) SyncSource(ctx context.Context, records []core.Record) error {
	body, err := json.Marshal(struct {
		Posts []core.Record `json:"posts"`
	}{Posts: records})
	if err != nil {
		return fmt.Errorf("failed to serialize records: %w", err)
	}
	return c.send(ctx, http.MethodPost, c.endpoint("/source"), body)
}

func (c *Client) get(ctx context.Context, url string, authed bool) (*core.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch returned %s", resp.Status)
	}

	var snap core.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (c *Client) send(ctx context.Context, method, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s", method, resp.Status)
	}
	return nil
}

var _ core.RemoteStore = (*Client)(nil)
