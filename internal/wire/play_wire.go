package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePlay(r chi.Router, playHandler *adaptor.PlayHandler, deps routeDeps) {
	r.Route("/plays", func(r chi.Router) {
		r.With(deps.cache()).Get("/", playHandler.ListPlays)
		r.With(deps.cache()).Get("/{id}", playHandler.GetPlay)
		r.With(deps.invalidate()).Post("/{id}/evaluate", playHandler.EvaluatePlay)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(deps.admin())
			r.Use(deps.invalidate())

			r.Post("/", playHandler.CreatePlay)
			r.Put("/{id}", playHandler.UpdatePlay)
			r.Delete("/{id}", playHandler.DeletePlay)
		})
	})
}
