// Package handlers provides HTTP handlers for snapshot operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/snapshots"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	service *snapshots.Service
	source  snapshots.StateSource
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *snapshots.Service, source snapshots.StateSource, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		source:  source,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// RecordPayload is a snapshot index row in responses
type RecordPayload struct {
	ID        string `json:"id"`
	RunID     string `json:"run_id,omitempty"`
	ChunkID   int    `json:"chunk_id"`
	Format    string `json:"format"`
	LocalPath string `json:"local_path"`
	RemoteKey string `json:"remote_key,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

func toPayload(rec *snapshots.Record) RecordPayload {
	return RecordPayload{
		ID:        rec.ID,
		RunID:     rec.RunID,
		ChunkID:   rec.ChunkID,
		Format:    rec.Format,
		LocalPath: rec.LocalPath,
		RemoteKey: rec.RemoteKey,
		SizeBytes: rec.SizeBytes,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}

// HandleTakeSnapshot handles POST /api/snapshots
func (h *Handler) HandleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	reg, runID, ok := h.source.CurrentState()
	if !ok {
		http.Error(w, "No active simulation", http.StatusConflict)
		return
	}

	rec, err := h.service.Snapshot(r.Context(), runID, reg)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to take snapshot")
		http.Error(w, "Failed to take snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": toPayload(rec),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleWriteCSV handles POST /api/snapshots/csv
func (h *Handler) HandleWriteCSV(w http.ResponseWriter, r *http.Request) {
	reg, runID, ok := h.source.CurrentState()
	if !ok {
		http.Error(w, "No active simulation", http.StatusConflict)
		return
	}

	rec, err := h.service.WriteCSV(runID, reg)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to write state CSV")
		http.Error(w, "Failed to write state CSV", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": toPayload(rec),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleListByRun handles GET /api/snapshots/run/{runID}
func (h *Handler) HandleListByRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	records, err := h.service.ListByRun(runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to list snapshots")
		http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	payloads := make([]RecordPayload, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, toPayload(rec))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"run_id":    runID,
			"snapshots": payloads,
			"count":     len(payloads),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// RemoteObjectPayload is one mirrored bucket object in responses
type RemoteObjectPayload struct {
	Key          string `json:"key"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified string `json:"last_modified"`
}

// HandleListRemote handles GET /api/snapshots/remote
func (h *Handler) HandleListRemote(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")

	objects, err := h.service.ListRemote(r.Context(), runID)
	if errors.Is(err, snapshots.ErrNoObjectStore) {
		http.Error(w, "No object store configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list remote snapshots")
		http.Error(w, "Failed to list remote snapshots", http.StatusInternalServerError)
		return
	}

	payloads := make([]RemoteObjectPayload, 0, len(objects))
	for _, obj := range objects {
		payloads = append(payloads, RemoteObjectPayload{
			Key:          obj.Key,
			SizeBytes:    obj.SizeBytes,
			LastModified: obj.LastModified.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"objects": payloads,
			"count":   len(payloads),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleDeleteRemote handles DELETE /api/snapshots/remote
func (h *Handler) HandleDeleteRemote(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	err := h.service.DeleteRemote(r.Context(), key)
	if errors.Is(err, snapshots.ErrNoObjectStore) {
		http.Error(w, "No object store configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to delete remote snapshot")
		http.Error(w, "Failed to delete remote snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"key":     key,
			"deleted": true,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
