package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Performances are not cached, available_tickets changes with every booking.
func wirePerformance(r chi.Router, performanceHandler *adaptor.PerformanceHandler, deps routeDeps) {
	r.Route("/performances", func(r chi.Router) {
		r.Get("/", performanceHandler.ListPerformances)
		r.Get("/{id}", performanceHandler.GetPerformance)

		r.Group(func(r chi.Router) {
			r.Use(deps.admin())

			r.Post("/", performanceHandler.CreatePerformance)
			r.Put("/{id}", performanceHandler.UpdatePerformance)
			r.Delete("/{id}", performanceHandler.DeletePerformance)
		})
	})
}
