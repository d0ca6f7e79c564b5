package adaptor

import (
	"theatre-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Catalog     *CatalogHandler
	Play        *PlayHandler
	Performance *PerformanceHandler
	Reservation *ReservationHandler
}

func NewHandler(service *usecase.Service, maxUploadBytes int64, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Catalog:     NewCatalogHandler(service.Catalog, maxUploadBytes, log),
		Play:        NewPlayHandler(service.Play, log),
		Performance: NewPerformanceHandler(service.Performance, log),
		Reservation: NewReservationHandler(service.Reservation, log),
	}
}
