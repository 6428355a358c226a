package core

import (
	"fmt"
	"sort"
)

// Reconciler merges the fixed seed set with a snapshot into the canonical,
// display-ready record list, and derives the minimal snapshot back from a
// view. It holds no mutable state beyond the seeds and is safe for
// concurrent use.
type Reconciler struct {
	seeds []Record
	byID  map[int64]Record
}

// NewReconciler creates a reconciler over a fixed seed set.
// Seed IDs must be unique.
func NewReconciler(seeds []Record) (*Reconciler, error) {
	r := &Reconciler{
		seeds: make([]Record, len(seeds)),
		byID:  make(map[int64]Record, len(seeds)),
	}
	for i, s := range seeds {
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate seed id %d", s.ID)
		}
		c := s.Clone()
		r.seeds[i] = c
		r.byID[s.ID] = c
	}
	return r, nil
}

// Seeds returns a copy of the seed set.
func (r *Reconciler) Seeds() []Record {
	out := make([]Record, len(r.seeds))
	for i, s := range r.seeds {
		out[i] = s.Clone()
	}
	return out
}

// IsSeed reports whether id belongs to the seed set.
func (r *Reconciler) IsSeed(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// Seed returns the original seed record for id.
func (r *Reconciler) Seed(id int64) (Record, bool) {
	s, ok := r.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.Clone(), true
}

// BuildView computes the merged view from a snapshot:
// seeds with overrides applied minus hidden ids, unioned with the saved
// list. Duplicate ids keep the seed-derived occurrence. Slug collisions
// give the newer record a numeric suffix. The result is sorted by
// descending publish date (ties broken by descending id).
func (r *Reconciler) BuildView(snap Snapshot) []Record {
	hidden := make(map[int64]bool, len(snap.Hidden))
	for _, id := range snap.Hidden {
		hidden[id] = true
	}

	view := make([]Record, 0, len(r.seeds)+len(snap.Saved))
	seen := make(map[int64]bool, len(r.seeds)+len(snap.Saved))
	usedSlugs := make(map[string]bool)

	place := func(rec Record) {
		rec.Slug = NormalizeSlug(rec.Slug)
		if rec.Slug == "" {
			rec.Slug = Slugify(rec.Title)
		}
		if usedSlugs[rec.Slug] {
			rec.Slug = nextFreeSlug(rec.Slug, usedSlugs)
		}
		usedSlugs[rec.Slug] = true
		seen[rec.ID] = true
		view = append(view, rec)
	}

	for _, s := range r.seeds {
		if hidden[s.ID] {
			continue
		}
		rec := s.Clone()
		// Overrides only ever apply to seed records; stray keys are dropped.
		if p, ok := snap.Overrides[s.ID]; ok {
			rec = p.Apply(rec)
			rec.ID = s.ID
		}
		place(rec)
	}

	for _, saved := range snap.Saved {
		if seen[saved.ID] {
			// Same id in the seed partition: the seed-derived record wins.
			continue
		}
		place(saved.Clone())
	}

	sortView(view)
	return view
}

// Derive computes the minimal {overrides, hidden, saved} triple from a
// view. A seed id absent from the view is recorded as hidden, which makes
// deleting a built-in record permanent across reconciliations.
func (r *Reconciler) Derive(view []Record) Snapshot {
	var snap Snapshot
	present := make(map[int64]bool, len(view))

	for _, rec := range view {
		present[rec.ID] = true
		seed, isSeed := r.byID[rec.ID]
		if !isSeed {
			snap.Saved = append(snap.Saved, rec.Clone())
			continue
		}
		if p := Diff(seed, rec); !p.IsZero() {
			if snap.Overrides == nil {
				snap.Overrides = make(map[int64]Patch)
			}
			snap.Overrides[rec.ID] = p
		}
	}

	for _, s := range r.seeds {
		if !present[s.ID] {
			snap.Hidden = append(snap.Hidden, s.ID)
		}
	}
	sort.Slice(snap.Hidden, func(i, j int) bool { return snap.Hidden[i] < snap.Hidden[j] })

	return snap
}

// Reconcile merges remote and local snapshots, builds the view, and
// derives the converged snapshot that both stores should be rewritten
// with. Either snapshot may be nil.
func (r *Reconciler) Reconcile(remote, local *Snapshot) ([]Record, Snapshot) {
	merged := MergeSnapshots(remote, local)
	view := r.BuildView(merged)
	out := r.Derive(view)
	out.Version = merged.Version
	return view, out
}

func sortView(view []Record) {
	sort.SliceStable(view, func(i, j int) bool {
		if !view[i].PublishedAt.Equal(view[j].PublishedAt) {
			return view[i].PublishedAt.After(view[j].PublishedAt)
		}
		return view[i].ID > view[j].ID
	})
}

// nextFreeSlug strips any existing numeric suffix and appends the smallest
// integer (starting at 2) that yields an unused slug.
func nextFreeSlug(slug string, used map[string]bool) string {
	base := SlugBase(slug)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}
