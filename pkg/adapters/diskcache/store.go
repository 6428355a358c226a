// Package diskcache implements core.CacheStore on the local filesystem:
// one JSON slot per content type, overwritten whole on every mutation.
// A corrupted or missing slot is treated as absent so a bad cache can
// never take the read path down.
package diskcache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/stromabio/stroma/pkg/core"
)

// Config holds the configuration for a disk cache slot.
type Config struct {
	// Dir is the cache directory, e.g. "~/.stroma".
	Dir string
	// ContentType names the slot file ({Dir}/{ContentType}.json).
	ContentType string
	Logger      *slog.Logger
}

// Store is a file-backed cache slot for one content type.
type Store struct {
	mu          sync.Mutex
	path        string
	contentType string
	logger      *slog.Logger

	// lastVersion remembers our own most recent write so the watcher can
	// tell external modifications apart from this process's writes.
	lastVersion string
}

// New creates a cache slot. The directory is created lazily on first write.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		path:        filepath.Join(cfg.Dir, cfg.ContentType+".json"),
		contentType: cfg.ContentType,
		logger:      logger,
	}
}

// Path returns the slot file location.
func (s *Store) Path() string { return s.path }

// Read loads the cached snapshot. An absent file returns (nil, nil);
// unreadable JSON is treated identically to absent, self-healing on the
// next write.
func (s *Store) Read() (*core.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache slot: %w", err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Debug("cache slot corrupted, treating as absent",
			"content", s.contentType, "error", err)
		return nil, nil
	}
	return &snap, nil
}

// Write overwrites the slot atomically (temp file + rename).
func (s *Store) Write(snap core.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return err
	}
	s.lastVersion = snap.Version
	return nil
}

// ownWrite reports whether the given version was written by this process.
func (s *Store) ownWrite(version string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return version != "" && version == s.lastVersion
}

var _ core.CacheStore = (*Store)(nil)
