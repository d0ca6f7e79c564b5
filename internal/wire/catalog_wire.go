package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog registers genres, actors and theatre halls. Reads are cached,
// admin writes drop the cache.
func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler, deps routeDeps) {
	r.Route("/genres", func(r chi.Router) {
		r.With(deps.cache()).Get("/", catalogHandler.ListGenres)
		r.With(deps.cache()).Get("/{id}", catalogHandler.GetGenre)

		r.Group(func(r chi.Router) {
			r.Use(deps.admin())
			r.Use(deps.invalidate())

			r.Post("/", catalogHandler.CreateGenre)
			r.Put("/{id}", catalogHandler.UpdateGenre)
			r.Delete("/{id}", catalogHandler.DeleteGenre)
		})
	})

	r.Route("/actors", func(r chi.Router) {
		r.With(deps.cache()).Get("/", catalogHandler.ListActors)
		r.With(deps.cache()).Get("/{id}", catalogHandler.GetActor)

		r.Group(func(r chi.Router) {
			r.Use(deps.admin())
			r.Use(deps.invalidate())

			r.Post("/", catalogHandler.CreateActor)
			r.Put("/{id}", catalogHandler.UpdateActor)
			r.Delete("/{id}", catalogHandler.DeleteActor)
			r.Post("/{id}/upload-image", catalogHandler.UploadActorImage)
		})
	})

	r.Route("/theatrehalls", func(r chi.Router) {
		r.With(deps.cache()).Get("/", catalogHandler.ListTheatreHalls)
		r.With(deps.cache()).Get("/{id}", catalogHandler.GetTheatreHall)

		r.Group(func(r chi.Router) {
			r.Use(deps.admin())
			r.Use(deps.invalidate())

			r.Post("/", catalogHandler.CreateTheatreHall)
			r.Put("/{id}", catalogHandler.UpdateTheatreHall)
			r.Delete("/{id}", catalogHandler.DeleteTheatreHall)
		})
	})
}
