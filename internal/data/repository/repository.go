package repository

import (
	"context"

	"theatre-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Genre       GenreRepository
	Actor       ActorRepository
	Play        PlayRepository
	TheatreHall TheatreHallRepository
	Performance PerformanceRepository
	Reservation ReservationRepository
	Ticket      TicketRepository
	Rating      RatingRepository

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.db = db
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(q, log),
		Session:     NewSessionRepository(q, log),
		Genre:       NewGenreRepository(q, log),
		Actor:       NewActorRepository(q, log),
		Play:        NewPlayRepository(q, log),
		TheatreHall: NewTheatreHallRepository(q, log),
		Performance: NewPerformanceRepository(q, log),
		Reservation: NewReservationRepository(q, log),
		Ticket:      NewTicketRepository(q, log),
		Rating:      NewRatingRepository(q, log),
		log:         log,
	}
}

// WithTx runs fn with repositories bound to one serializable transaction,
// retrying on serialization failures. A Repository built without a pool
// (unit tests with fakes) runs fn directly against itself.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	return database.RunSerializable(ctx, r.db, func(q database.Querier) error {
		return fn(newRepository(q, r.log))
	})
}

// Ping checks the underlying pool, used by the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.Ping(ctx)
}
