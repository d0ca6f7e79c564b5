package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, deps routeDeps) {
	r.With(deps.auth()).Get("/user/me", userHandler.Me)

	// ==================== ADMIN ROUTES ====================
	r.Route("/user/admin/users", func(r chi.Router) {
		r.Use(deps.auth())
		r.Use(deps.admin())

		r.Get("/", userHandler.GetAllUsers)       // GET /api/user/admin/users
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/user/admin/users/{id}
	})
}
