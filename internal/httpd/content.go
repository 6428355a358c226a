package httpd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/stromabio/stroma/pkg/core"
)

// handleFetch returns the stored snapshot for a content type. An empty
// slot answers with an empty snapshot rather than 404 so clients can
// bootstrap against a fresh server.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	snap, err := store.Read()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "snapshot unavailable")
		return
	}
	if snap == nil {
		snap = &core.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snap)
}

// handlePush replaces the stored snapshot.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	var snap core.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot body")
		return
	}
	if err := store.Write(snap); err != nil {
		s.logger.Error("snapshot write failed",
			"content", r.PathValue("type"), "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot write failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": snap.Version})
}

// handleSyncSource accepts the full reconstructed record list and keeps
// a durable copy outside the snapshot slot. Best-effort by contract:
// clients fire and forget this call.
func (s *Server) handleSyncSource(w http.ResponseWriter, r *http.Request) {
	ct := r.PathValue("type")
	if _, ok := s.stores[ct]; !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return
	}

	var payload struct {
		Posts []core.Record `json:"posts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	dir := filepath.Join(s.cfg.DataDir, "source")
	if err := os.MkdirAll(dir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "source sync failed")
		return
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "source sync failed")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, ct+".json"), data, 0644); err != nil {
		s.logger.Error("source write failed", "content", ct, "error", err)
		writeError(w, http.StatusInternalServerError, "source sync failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
