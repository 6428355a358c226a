package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

// Config holds the wiring for a content Service.
type Config struct {
	// ContentType names the collection, e.g. "blog" or "products".
	ContentType string

	// Seeds is the immutable built-in record set.
	Seeds []Record

	Remote RemoteStore // optional; nil means offline
	Cache  CacheStore  // optional; nil means memory-only
	Schema *Schema     // optional validation rules

	Logger      *slog.Logger
	Clock       func() time.Time
	EventBuffer int
	ReadOnly    bool
}

// Service handles the business logic for one content type: it owns the
// in-memory merged view and runs every mutation through the same path of
// reconcile, persist and notify. Mutations are applied optimistically;
// the local cache write is synchronous and the remote push is
// fire-and-forget, so a caller always sees its own change immediately.
type Service struct {
	mu          sync.RWMutex
	contentType string
	rec         *Reconciler
	remote      RemoteStore
	cache       CacheStore
	schema      *Schema
	broker      *Broker
	logger      *slog.Logger
	clock       func() time.Time
	readOnly    bool

	view     []Record
	version  string
	loaded   bool
	lastSync *time.Time
}

// NewService creates a Service. It fails only on an invalid seed set.
func NewService(cfg Config) (*Service, error) {
	rec, err := NewReconciler(cfg.Seeds)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		contentType: cfg.ContentType,
		rec:         rec,
		remote:      cfg.Remote,
		cache:       cfg.Cache,
		schema:      cfg.Schema,
		broker:      NewBroker(cfg.EventBuffer),
		logger:      logger,
		clock:       clock,
		readOnly:    cfg.ReadOnly,
	}, nil
}

// ContentType returns the collection name this service manages.
func (s *Service) ContentType() string { return s.contentType }

// Version returns the version stamp of the current snapshot.
func (s *Service) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Seeds returns a copy of the built-in record set.
func (s *Service) Seeds() []Record { return s.rec.Seeds() }

// Load fetches the remote snapshot and the local cache, merges them under
// the local-wins policy, rebuilds the view and re-persists the converged
// snapshot to both stores. Read-path failures degrade silently: a failed
// remote fetch falls back to the cache, an absent or corrupt cache falls
// back to the raw seed set. The only returned error is ctx cancellation.
func (s *Service) Load(ctx context.Context) error {
	var remote *Snapshot
	if s.remote != nil {
		snap, err := s.remote.Fetch(ctx)
		if err != nil {
			s.logger.Debug("remote fetch failed, using cache only",
				"content", s.contentType, "error", err)
		} else {
			remote = snap
		}
	}

	var local *Snapshot
	if s.cache != nil {
		snap, err := s.cache.Read()
		if err != nil {
			s.logger.Debug("cache read failed, using seeds only",
				"content", s.contentType, "error", err)
		} else {
			local = snap
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	view, snap := s.rec.Reconcile(remote, local)
	if snap.Version == "" {
		snap.Version = uuid.NewString()
	}

	s.mu.Lock()
	s.view = view
	s.version = snap.Version
	s.loaded = true
	now := s.clock()
	s.lastSync = &now
	s.mu.Unlock()

	if !s.readOnly {
		s.persist(ctx, snap, cloneRecords(view))
	}
	return nil
}

// Refresh re-runs Load and broadcasts a reload notification so other
// consumers of this view pick up external changes.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.broker.Publish(Event{
		Type:        EventReload,
		ContentType: s.contentType,
		Timestamp:   s.clock().Unix(),
	})
	return nil
}

// Records returns a copy of the merged view, loading it on first use.
func (s *Service) Records(ctx context.Context) ([]Record, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.view), nil
}

// Get retrieves one record by id.
func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByID(s.view, id); i >= 0 {
		return s.view[i].Clone(), nil
	}
	return Record{}, ErrNotFound
}

// GetBySlug retrieves one record by its (normalized) slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Record, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}
	slug = NormalizeSlug(slug)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.view {
		if s.view[i].Slug == slug {
			return s.view[i].Clone(), nil
		}
	}
	return Record{}, ErrNotFound
}

// Create adds a record to the view. The slug is normalized to lowercase
// and disambiguated with a numeric suffix on collision. Creating with an
// id that already exists replaces that record in place instead of
// duplicating it.
func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	if s.readOnly {
		return Record{}, ErrReadOnly
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}

	rec.Slug = NormalizeSlug(rec.Slug)
	if rec.Slug == "" {
		rec.Slug = Slugify(rec.Title)
	}
	if rec.Slug == "" {
		return Record{}, fmt.Errorf("%w: record needs a slug or a title", ErrValidation)
	}
	if err := s.schema.ValidateRecord(rec); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	if rec.ID == 0 {
		rec.ID = s.clock().UnixMilli()
	}
	if rec.PublishedAt.IsZero() {
		rec.PublishedAt = s.clock()
	}
	rec.Slug = uniqueSlug(s.view, rec.Slug, rec.ID)

	evtType := EventCreate
	if i := indexByID(s.view, rec.ID); i >= 0 {
		s.view[i] = rec.Clone()
		evtType = EventModify
	} else {
		s.view = append([]Record{rec.Clone()}, s.view...)
	}
	snap, view := s.canonicalizeLocked()
	s.mu.Unlock()

	s.persist(ctx, snap, view)
	s.notify(evtType, rec.ID)
	return rec, nil
}

// Update merges a patch onto the record matching id. For a seed record
// the change is persisted as a field-level override against the original
// seed; for a saved record the patched record replaces its entry.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Record, error) {
	if s.readOnly {
		return Record{}, ErrReadOnly
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}
	if err := s.schema.ValidatePatch(patch); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	i := indexByID(s.view, id)
	if i < 0 {
		s.mu.Unlock()
		return Record{}, ErrNotFound
	}
	updated := patch.Apply(s.view[i])
	updated.ID = id
	if patch.Slug != nil {
		updated.Slug = uniqueSlug(s.view, NormalizeSlug(updated.Slug), id)
	}
	s.view[i] = updated
	snap, view := s.canonicalizeLocked()
	s.mu.Unlock()

	s.persist(ctx, snap, view)
	s.notify(EventModify, id)

	rec, _ := recordByID(view, id)
	return rec, nil
}

// Delete removes the record matching id from the view. Deleting a seed
// record is permanent: the derived snapshot records its id as hidden, so
// the seed does not resurface on the next reconciliation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	i := indexByID(s.view, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.view = append(s.view[:i], s.view[i+1:]...)
	snap, view := s.canonicalizeLocked()
	s.mu.Unlock()

	s.persist(ctx, snap, view)
	s.notify(EventDelete, id)
	return nil
}

// Subscribe registers for change notifications. The pattern is matched
// against event topics ("blog/create", ...) with doublestar syntax.
func (s *Service) Subscribe(pattern string) (<-chan Event, func(), error) {
	return s.broker.Subscribe(pattern)
}

// Follow consumes an external event stream (e.g. the cache watcher) and
// re-reconciles on every notification. It returns immediately; the
// consuming goroutine is supervised by lifecycle and stops with ctx.
func (s *Service) Follow(ctx context.Context, events <-chan Event) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-events:
				if !ok {
					return nil
				}
				if err := s.Refresh(ctx); err != nil {
					return err
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("follow loop failed", "content", s.contentType, "error", err)
	}))
}

// Close shuts down the notification broker.
func (s *Service) Close() {
	s.broker.Close()
}

// --- internals ---

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Load(ctx)
}

// canonicalizeLocked derives the minimal snapshot from the current view,
// stamps a fresh version, and rebuilds the view from it so ordering and
// slug invariants hold after every mutation. Caller must hold s.mu.
func (s *Service) canonicalizeLocked() (Snapshot, []Record) {
	snap := s.rec.Derive(s.view)
	snap.Version = uuid.NewString()
	s.view = s.rec.BuildView(snap)
	s.version = snap.Version
	return snap, cloneRecords(s.view)
}

// persist writes the snapshot to the local cache synchronously (errors
// swallowed: in-memory state stays authoritative for the session) and
// pushes it to the remote store in a supervised goroutine whose failure
// is never surfaced to the caller.
func (s *Service) persist(ctx context.Context, snap Snapshot, view []Record) {
	if s.cache != nil {
		if err := s.cache.Write(snap); err != nil {
			s.logger.Warn("cache write failed",
				"content", s.contentType, "error", err)
		}
	}
	if s.remote == nil {
		return
	}
	lifecycle.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.remote.Push(ctx, snap); err != nil {
			s.logger.Debug("remote push failed",
				"content", s.contentType, "error", err)
			return nil
		}
		if err := s.remote.SyncSource(ctx, view); err != nil {
			s.logger.Debug("source sync failed",
				"content", s.contentType, "error", err)
		}
		return nil
	})
}

func (s *Service) notify(t EventType, id int64) {
	s.broker.Publish(Event{
		Type:        t,
		ContentType: s.contentType,
		ID:          id,
		Timestamp:   s.clock().Unix(),
	})
}

func indexByID(view []Record, id int64) int {
	for i := range view {
		if view[i].ID == id {
			return i
		}
	}
	return -1
}

func recordByID(view []Record, id int64) (Record, bool) {
	if i := indexByID(view, id); i >= 0 {
		return view[i], true
	}
	return Record{}, false
}

func cloneRecords(view []Record) []Record {
	out := make([]Record, len(view))
	for i, r := range view {
		out[i] = r.Clone()
	}
	return out
}

// uniqueSlug returns slug unchanged if no other record uses it, otherwise
// the base with the smallest free numeric suffix (starting at 2).
func uniqueSlug(view []Record, slug string, selfID int64) string {
	used := make(map[string]bool, len(view))
	for i := range view {
		if view[i].ID != selfID {
			used[view[i].Slug] = true
		}
	}
	if !used[slug] {
		return slug
	}
	return nextFreeSlug(slug, used)
}
