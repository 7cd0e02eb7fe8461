// Package handlers provides HTTP handlers for run manifest operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/internal/modules/rng"
	"github.com/aristath/qsim/internal/modules/runs"
	"github.com/aristath/qsim/pkg/algebra"
)

// Handler handles run HTTP requests
type Handler struct {
	service *runs.Service
	seeder  *rng.Seeder
	log     zerolog.Logger
}

// NewHandler creates a new run handler
func NewHandler(service *runs.Service, seeder *rng.Seeder, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		seeder:  seeder,
		log:     log.With().Str("handler", "runs").Logger(),
	}
}

// CreateRequest represents a run creation request
type CreateRequest struct {
	Label     string   `json:"label,omitempty"`
	NumQubits int      `json:"num_qubits"`
	NumChunks int      `json:"num_chunks,omitempty"`
	ChunkID   int      `json:"chunk_id,omitempty"`
	Precision string   `json:"precision,omitempty"`
	SeedKeys  []uint64 `json:"seed_keys"`
}

// RunPayload is a manifest row in responses
type RunPayload struct {
	ID         string   `json:"id"`
	Label      string   `json:"label,omitempty"`
	NumQubits  int      `json:"num_qubits"`
	NumChunks  int      `json:"num_chunks"`
	ChunkID    int      `json:"chunk_id"`
	Precision  string   `json:"precision"`
	SeedKeys   []uint64 `json:"seed_keys"`
	Status     string   `json:"status"`
	FaultCode  int      `json:"fault_code,omitempty"`
	CreatedAt  string   `json:"created_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
}

func toPayload(run *runs.Run) RunPayload {
	p := RunPayload{
		ID:        run.ID,
		Label:     run.Label,
		NumQubits: run.NumQubits,
		NumChunks: run.NumChunks,
		ChunkID:   run.ChunkID,
		Precision: string(run.Precision),
		SeedKeys:  run.SeedKeys,
		Status:    string(run.Status),
		FaultCode: run.FaultCode,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		p.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return p
}

// HandleCreate handles POST /api/runs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	numChunks := req.NumChunks
	if numChunks == 0 {
		numChunks = 1
	}

	run, err := h.service.Create(runs.NewRunParams{
		Label:     req.Label,
		NumQubits: req.NumQubits,
		NumChunks: numChunks,
		ChunkID:   req.ChunkID,
		Precision: algebra.Precision(req.Precision),
		SeedKeys:  req.SeedKeys,
	})
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": toPayload(run),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleList handles GET /api/runs
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.List(50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	payloads := make([]RunPayload, 0, len(listed))
	for _, run := range listed {
		payloads = append(payloads, toPayload(run))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"runs":  payloads,
			"count": len(payloads),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGet handles GET /api/runs/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.Get(id)
	if errors.Is(err, runs.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": toPayload(run),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleReproduce handles POST /api/runs/{id}/reproduce
func (h *Handler) HandleReproduce(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.Reproduce(id, h.seeder)
	if errors.Is(err, runs.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to reproduce run")
		http.Error(w, "Failed to reproduce run", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"run":      toPayload(run),
			"reseeded": true,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeCreateError maps geometry faults to 422 and everything else to 400
func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	var f *faults.Fault
	if errors.As(err, &f) {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    f.Kind.ExitCode(),
				"message": f.Kind.Message(),
			},
		})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
