package webstore

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL     string `json:"base_url"`
	ContentType string `json:"content_type"`
	Authorized  bool   `json:"authorized"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{
		BaseURL:     c.base,
		ContentType: c.contentType,
		Authorized:  c.token != "",
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "webstore"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
