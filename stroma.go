package stroma

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/stromabio/stroma/internal/platform"
	"github.com/stromabio/stroma/pkg/core"
	"github.com/stromabio/stroma/pkg/seed"
	"github.com/stromabio/stroma/pkg/typed"
)

// --- Types ---

// Record is a public alias for the domain record.
type Record = core.Record

// Patch is a public alias for the typed partial update.
type Patch = core.Patch

// Fields is a public alias for content-type-specific attributes.
type Fields = core.Fields

// Snapshot is a public alias for the persisted representation.
type Snapshot = core.Snapshot

// Event is a public alias for a change notification.
type Event = core.Event

// Service is a public alias for the content service.
type Service = core.Service

// Schema is a public alias for the content-type validation rules.
type Schema = core.Schema

// TypedService is a public alias for the type-safe service wrapper.
type TypedService[T any] = typed.Service[T]

// --- Configuration ---

// Option defines a functional option for configuring a content service.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithEndpoint points the service at a remote content API.
func WithEndpoint(baseURL, token string) Option {
	return platform.WithEndpoint(baseURL, token)
}

// WithCacheDir enables the local disk cache under the given directory.
func WithCacheDir(dir string) Option {
	return platform.WithCacheDir(dir)
}

// WithRemote injects a custom remote store.
func WithRemote(store core.RemoteStore) Option {
	return platform.WithRemote(store)
}

// WithCache injects a custom cache store.
func WithCache(store core.CacheStore) Option {
	return platform.WithCache(store)
}

// WithSchema sets the validation rules for the content type.
func WithSchema(schema *core.Schema) Option {
	return platform.WithSchema(schema)
}

// WithEventBuffer sets the per-subscriber notification buffer size.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithClock overrides the clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithHTTPClient overrides the HTTP client used by the remote adapter.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// --- Factory ---

// New creates a content service for one content type over the given
// seed set.
func New(contentType string, seeds []Record, opts ...Option) (*Service, error) {
	return platform.New(contentType, seeds, opts...)
}

// NewTypedService creates a type-safe wrapper around an existing service.
func NewTypedService[T any](svc *Service) *typed.Service[T] {
	return typed.NewService[T](svc)
}

// --- Seeds ---

// LoadSeeds parses a YAML seed file from disk.
func LoadSeeds(path string) ([]Record, error) {
	return seed.LoadFile(path)
}

// LoadSeedsGlob collects seed records from every file in fsys matching
// the doublestar pattern (works with go:embed filesystems).
func LoadSeedsGlob(fsys fs.FS, pattern string) ([]Record, error) {
	return seed.LoadGlob(fsys, pattern)
}

// --- Utils ---

// DefaultCacheDir returns the per-user cache directory (~/.stroma).
func DefaultCacheDir() string {
	return platform.DefaultCacheDir()
}

// Slugify derives a URL-safe slug from free text.
func Slugify(text string) string {
	return core.Slugify(text)
}
