// Package handlers provides HTTP handlers for seeding operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/rng"
)

// Handler handles seeding HTTP requests
type Handler struct {
	seeder *rng.Seeder
	gen    rng.Generator
	log    zerolog.Logger
}

// NewHandler creates a new seeding handler
func NewHandler(seeder *rng.Seeder, gen rng.Generator, log zerolog.Logger) *Handler {
	return &Handler{
		seeder: seeder,
		gen:    gen,
		log:    log.With().Str("handler", "rng").Logger(),
	}
}

// SeedRequest represents a seeding request. Empty keys request default
// ambient seeding.
type SeedRequest struct {
	Keys []uint64 `json:"keys,omitempty"`
}

// HashRequest represents a string hash request
type HashRequest struct {
	Value string `json:"value"`
}

// HandleSeed handles POST /api/rng/seed
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Keys) == 0 {
		material, err := h.seeder.SeedDefault()
		if err != nil {
			h.log.Error().Err(err).Msg("Default seeding failed")
			http.Error(w, "Default seeding failed", http.StatusInternalServerError)
			return
		}

		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"mode": "default",
				"keys": material.Keys(),
			},
			"metadata": map[string]interface{}{
				"timestamp": time.Now().Format(time.RFC3339),
			},
		})
		return
	}

	if err := h.seeder.SeedExplicit(req.Keys); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"mode": "explicit",
			"keys": req.Keys,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleHash handles POST /api/rng/hash
func (h *Handler) HandleHash(w http.ResponseWriter, r *http.Request) {
	var req HashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"value": req.Value,
			"hash":  rng.HashString(req.Value),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleSample handles GET /api/rng/sample
func (h *Handler) HandleSample(w http.ResponseWriter, r *http.Request) {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1024 {
			http.Error(w, "count must be an integer in [1, 1024]", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	samples := make([]float64, count)
	for i := range samples {
		samples[i] = h.gen.Float64()
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"samples": samples,
			"count":   count,
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
