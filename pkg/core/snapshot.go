package core

// Snapshot is the minimal persisted representation of one content type:
// everything needed to reconstruct the merged view given the immutable
// seed set. Seed records themselves are never stored verbatim.
//
// The wire field for Saved is "posts" for historical reasons; it carries
// user-created records for every content type, not just blog posts.
type Snapshot struct {
	Version   string          `json:"version,omitempty"`
	Saved     []Record        `json:"posts"`
	Hidden    []int64         `json:"hidden"`
	Overrides map[int64]Patch `json:"overrides"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Version: s.Version}
	if s.Saved != nil {
		out.Saved = make([]Record, len(s.Saved))
		for i, r := range s.Saved {
			out.Saved[i] = r.Clone()
		}
	}
	if s.Hidden != nil {
		out.Hidden = append([]int64(nil), s.Hidden...)
	}
	if s.Overrides != nil {
		out.Overrides = make(map[int64]Patch, len(s.Overrides))
		for id, p := range s.Overrides {
			out.Overrides[id] = p
		}
	}
	return out
}

// MergeSnapshots combines a remote and a local snapshot under the
// local-wins policy: overrides start from remote and every key present
// locally overwrites the remote value; hidden and saved are unioned by
// value/id, with the local entry winning when both carry the same id.
// Either input may be nil (failed fetch, empty cache).
func MergeSnapshots(remote, local *Snapshot) Snapshot {
	if remote == nil && local == nil {
		return Snapshot{}
	}
	if remote == nil {
		return local.Clone()
	}
	if local == nil {
		return remote.Clone()
	}

	out := Snapshot{Version: local.Version}
	if out.Version == "" {
		out.Version = remote.Version
	}

	// Overrides: remote base, local overlay.
	if len(remote.Overrides) > 0 || len(local.Overrides) > 0 {
		out.Overrides = make(map[int64]Patch, len(remote.Overrides)+len(local.Overrides))
		for id, p := range remote.Overrides {
			out.Overrides[id] = p
		}
		for id, p := range local.Overrides {
			out.Overrides[id] = p
		}
	}

	// Hidden: union, remote order first.
	seenHidden := make(map[int64]bool, len(remote.Hidden)+len(local.Hidden))
	for _, id := range remote.Hidden {
		if !seenHidden[id] {
			seenHidden[id] = true
			out.Hidden = append(out.Hidden, id)
		}
	}
	for _, id := range local.Hidden {
		if !seenHidden[id] {
			seenHidden[id] = true
			out.Hidden = append(out.Hidden, id)
		}
	}

	// Saved: union by id, local version wins in place.
	localByID := make(map[int64]Record, len(local.Saved))
	for _, r := range local.Saved {
		if _, dup := localByID[r.ID]; !dup {
			localByID[r.ID] = r
		}
	}
	seenSaved := make(map[int64]bool, len(remote.Saved)+len(local.Saved))
	for _, r := range remote.Saved {
		if seenSaved[r.ID] {
			continue
		}
		seenSaved[r.ID] = true
		if lr, ok := localByID[r.ID]; ok {
			out.Saved = append(out.Saved, lr.Clone())
		} else {
			out.Saved = append(out.Saved, r.Clone())
		}
	}
	for _, r := range local.Saved {
		if seenSaved[r.ID] {
			continue
		}
		seenSaved[r.ID] = true
		out.Saved = append(out.Saved, r.Clone())
	}

	return out
}
