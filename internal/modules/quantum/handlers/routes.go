package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all simulation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quantum", func(r chi.Router) {
		r.Post("/rotate", h.HandleRotate)
		r.Post("/unitary", h.HandleUnitary)
		r.Post("/compact-unitary", h.HandleCompactUnitary)
		r.Post("/phase", h.HandlePhase)
		r.Post("/gate", h.HandleGate)
		r.Post("/init", h.HandleInit)
		r.Post("/reset", h.HandleReset)
		r.Post("/decompose", h.HandleDecompose)
		r.Post("/validate-unitary", h.HandleValidateUnitary)
		r.Get("/probabilities", h.HandleGetProbabilities)
		r.Get("/params", h.HandleGetParams)
	})
}
