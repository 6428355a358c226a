package platform

import (
	"github.com/stromabio/stroma/pkg/adapters/diskcache"
	"github.com/stromabio/stroma/pkg/adapters/webstore"
	"github.com/stromabio/stroma/pkg/core"
)

// New wires a content service for one content type from the provided
// options: an HTTP remote when an endpoint is configured, a disk cache
// when a cache directory is configured, or any injected stores.
func New(contentType string, seeds []core.Record, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	remote := o.remote
	if remote == nil && o.baseURL != "" {
		remote = webstore.NewClient(webstore.Config{
			BaseURL:     o.baseURL,
			ContentType: contentType,
			Token:       o.token,
			HTTPClient:  o.httpClient,
			Logger:      o.logger,
		})
	}

	cache := o.cache
	if cache == nil && o.cacheDir != "" {
		cache = diskcache.New(diskcache.Config{
			Dir:         ResolveCacheDir(o.cacheDir),
			ContentType: contentType,
			Logger:      o.logger,
		})
	}

	return core.NewService(core.Config{
		ContentType: contentType,
		Seeds:       seeds,
		Remote:      remote,
		Cache:       cache,
		Schema:      o.schema,
		Logger:      o.logger,
		Clock:       o.clock,
		EventBuffer: o.eventBuffer,
		ReadOnly:    o.readOnly,
	})
}
