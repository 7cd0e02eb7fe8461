package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snapshot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/snapshots", func(r chi.Router) {
		r.Post("/", h.HandleTakeSnapshot)
		r.Post("/csv", h.HandleWriteCSV)
		r.Get("/run/{runID}", h.HandleListByRun)
		r.Get("/remote", h.HandleListRemote)
		r.Delete("/remote", h.HandleDeleteRemote)
	})
}
