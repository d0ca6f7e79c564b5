package usecase

import (
	"context"

	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/storage"
	"theatre-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Catalog     CatalogService
	Play        PlayService
	Performance PerformanceService
	Reservation ReservationService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	publisher events.Publisher,
	images storage.ImageStorage,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config.JWT, log),
		User:        NewUserService(repo, log),
		Catalog:     NewCatalogService(repo, images, config.Media.URLPrefix, log),
		Play:        NewPlayService(repo, publisher, config.Media.URLPrefix, log),
		Performance: NewPerformanceService(repo, log),
		Reservation: NewReservationService(repo, publisher, log),
	}
}

// publish sends an event after the owning transaction committed.
// Delivery failures are logged, the request has already succeeded.
func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, event any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event", zap.Error(err))
	}
}
