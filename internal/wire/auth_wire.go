package wire

import (
	"theatre-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, deps routeDeps) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/user/register", authHandler.Register)
	r.Post("/user/token", authHandler.Token)
	r.Post("/user/token/refresh", authHandler.Refresh)
	r.Post("/user/token/verify", authHandler.Verify)

	// ==================== PROTECTED ROUTES ====================
	r.With(deps.auth()).Post("/user/logout", authHandler.Logout)
}
