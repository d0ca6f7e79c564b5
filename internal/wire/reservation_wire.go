package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Reservations are always scoped to the caller.
func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, _ routeDeps) {
	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", reservationHandler.ListReservations)
		r.Post("/", reservationHandler.CreateReservation)
		r.Get("/{id}", reservationHandler.GetReservation)
		r.Post("/{id}/cancel", reservationHandler.CancelReservation)
	})
}
