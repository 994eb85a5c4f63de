package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(BodyLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.AddTask)
			r.Delete("/{id}", h.RemoveTask)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/today", h.Today)
			r.Post("/today/tasks/{id}/toggle", h.Toggle)
			r.Put("/today/reflection", h.SetReflection)
			r.Get("/{day}", h.Day)
		})

		r.Get("/progress", h.Progress)
		r.Get("/prayer-times", h.PrayerTimes)
	})

	return r
}
