package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all seeding routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rng", func(r chi.Router) {
		r.Post("/seed", h.HandleSeed)
		r.Post("/hash", h.HandleHash)
		r.Get("/sample", h.HandleSample)
	})
}
