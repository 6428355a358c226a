package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stromabio/stroma/pkg/core"
)

// options holds the internal configuration for a content service.
type options struct {
	logger      *slog.Logger
	remote      core.RemoteStore
	cache       core.CacheStore
	schema      *core.Schema
	baseURL     string
	token       string
	cacheDir    string
	eventBuffer int
	readOnly    bool
	clock       func() time.Time
	httpClient  *http.Client
}

// Option defines a functional option for configuring a content service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRemote injects a custom remote store (e.g. mock, in-memory).
// If provided, the default HTTP adapter is skipped.
func WithRemote(store core.RemoteStore) Option {
	return func(o *options) {
		o.remote = store
	}
}

// WithCache injects a custom cache store.
// If provided, the default disk adapter is skipped.
func WithCache(store core.CacheStore) Option {
	return func(o *options) {
		o.cache = store
	}
}

// WithEndpoint points the service at a remote content API.
// The token authorizes writes; leave it empty for read-only access via
// the public endpoint.
func WithEndpoint(baseURL, token string) Option {
	return func(o *options) {
		o.baseURL = baseURL
		o.token = token
	}
}

// WithCacheDir enables the disk cache under the given directory.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// WithSchema sets the validation rules for the content type.
func WithSchema(schema *core.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithEventBuffer sets the size of the notification buffer per
// subscriber. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithReadOnly enables read-only mode: mutations return ErrReadOnly and
// reconciliation results are not re-persisted.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithClock overrides the clock, useful for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithHTTPClient overrides the HTTP client used by the remote adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}
