package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status bool) error
}

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.Status,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("user_id", reservation.UserID.String()),
		)
		return fmt.Errorf("create reservation for user %s: %w", reservation.UserID.String(), err)
	}

	return nil
}

// FindByIDForUser returns nil when the reservation does not exist or belongs to someone else.
func (r *reservationRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE id = $1 AND user_id = $2
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reservation %s: %w", id.String(), err)
	}

	return &reservation, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reservations of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count reservations of user %s: %w", userID.String(), err)
	}

	return count, nil
}

// UpdateStatus is scoped to the owner, so another user's reservation reads as not found.
func (r *reservationRepository) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status bool) error {
	query := `UPDATE reservations SET status = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID, status, time.Now())
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.Bool("status", status),
		)
		return fmt.Errorf("update status of reservation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
