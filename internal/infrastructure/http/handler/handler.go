// Package handler adapts HTTP requests to schedule service calls.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parishdesk/parishdesk/internal/schedule"
)

// ScheduleHandler serves the occasion, session and wizard endpoints.
type ScheduleHandler struct {
	service *schedule.Service
}

// NewScheduleHandler creates a new HTTP API handler.
func NewScheduleHandler(service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// NewRouter creates the API router with all routes mounted. Both production
// code and tests should use this function to ensure identical behavior.
func NewRouter(service *schedule.Service) http.Handler {
	h := NewScheduleHandler(service)

	r := chi.NewRouter()

	r.Route("/v1/occasions", func(r chi.Router) {
		r.Post("/", h.CreateOccasion)
		r.Get("/", h.ListOccasions)
		r.Route("/{occasionID}", func(r chi.Router) {
			r.Get("/", h.GetOccasion)
			r.Patch("/", h.UpdateOccasion)
			r.Delete("/", h.DeleteOccasion)
			r.Get("/calendar.ics", h.OccasionCalendar)
		})
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/preview", h.PreviewSessions)
		r.Post("/", h.SubmitSessions)
		r.Get("/", h.ListSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Patch("/", h.UpdateSession)
			r.Delete("/", h.DeleteSession)
		})
	})

	return r
}
