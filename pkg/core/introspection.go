package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	ContentType string     `json:"content_type"`
	SeedCount   int        `json:"seed_count"`
	RecordCount int        `json:"record_count"`
	Version     string     `json:"version,omitempty"`
	ReadOnly    bool       `json:"read_only"`
	HasRemote   bool       `json:"has_remote"`
	HasCache    bool       `json:"has_cache"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServiceState{
		ContentType: s.contentType,
		SeedCount:   len(s.rec.seeds),
		RecordCount: len(s.view),
		Version:     s.version,
		ReadOnly:    s.readOnly,
		HasRemote:   s.remote != nil,
		HasCache:    s.cache != nil,
		LastSync:    s.lastSync,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
