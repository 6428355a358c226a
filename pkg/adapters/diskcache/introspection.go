package diskcache

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	LastVersion string `json:"last_version,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreState{
		Path:        s.path,
		ContentType: s.contentType,
		LastVersion: s.lastVersion,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "cache"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
