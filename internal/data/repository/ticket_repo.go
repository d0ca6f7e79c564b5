package repository

import (
	"context"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	ExistsActive(ctx context.Context, performanceID uuid.UUID, row, seat int) (bool, error)
	FindTakenSeats(ctx context.Context, performanceID uuid.UUID) ([]entity.Seat, error)
	FindByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) (map[uuid.UUID][]*entity.TicketView, error)
	SetActiveByReservation(ctx context.Context, reservationID uuid.UUID, active bool) (int64, error)
}

type ticketRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTicketRepository(db database.Querier, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

// Create inserts a ticket. A clash with another active ticket on the same seat yields ErrSeatTaken.
func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, performance_id, reservation_id, seat_row, seat_number, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.PerformanceID,
		ticket.ReservationID,
		ticket.Row,
		ticket.Seat,
		ticket.Active,
		ticket.CreatedAt,
	)
	if database.IsUniqueViolation(err, database.ConstraintActiveSeat) {
		return fmt.Errorf("row %d seat %d: %w", ticket.Row, ticket.Seat, ErrSeatTaken)
	}
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("create ticket: %w", ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("performance_id", ticket.PerformanceID.String()),
			zap.Int("row", ticket.Row),
			zap.Int("seat", ticket.Seat),
		)
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

// ExistsActive reports whether the seat is held by a ticket of an active reservation.
func (r *ticketRepository) ExistsActive(ctx context.Context, performanceID uuid.UUID, row, seat int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM tickets t
			JOIN reservations r ON r.id = t.reservation_id
			WHERE t.performance_id = $1 AND t.seat_row = $2 AND t.seat_number = $3 AND r.status
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, performanceID, row, seat).Scan(&exists); err != nil {
		r.log.Error("Failed to check seat",
			zap.Error(err),
			zap.String("performance_id", performanceID.String()),
			zap.Int("row", row),
			zap.Int("seat", seat),
		)
		return false, fmt.Errorf("check seat row %d seat %d: %w", row, seat, err)
	}

	return exists, nil
}

func (r *ticketRepository) FindTakenSeats(ctx context.Context, performanceID uuid.UUID) ([]entity.Seat, error) {
	query := `
		SELECT t.seat_row, t.seat_number
		FROM tickets t
		JOIN reservations r ON r.id = t.reservation_id
		WHERE t.performance_id = $1 AND r.status
		ORDER BY t.seat_row, t.seat_number
	`

	rows, err := r.db.Query(ctx, query, performanceID)
	if err != nil {
		r.log.Error("Failed to find taken seats", zap.Error(err), zap.String("performance_id", performanceID.String()))
		return nil, fmt.Errorf("find taken seats of performance %s: %w", performanceID.String(), err)
	}
	defer rows.Close()

	seats := []entity.Seat{}
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(&seat.Row, &seat.Seat); err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

// FindByReservationIDs returns tickets grouped by reservation, ordered by row then seat.
func (r *ticketRepository) FindByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) (map[uuid.UUID][]*entity.TicketView, error) {
	result := make(map[uuid.UUID][]*entity.TicketView, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT t.id, t.performance_id, t.reservation_id, t.seat_row, t.seat_number, t.active, t.created_at,
		       pf.show_time, p.id, p.title, h.id, h.name
		FROM tickets t
		JOIN performances pf ON pf.id = t.performance_id
		JOIN plays p ON p.id = pf.play_id
		JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		WHERE t.reservation_id = ANY($1::uuid[])
		ORDER BY t.seat_row, t.seat_number
	`

	rows, err := r.db.Query(ctx, query, uuidStrings(reservationIDs))
	if err != nil {
		r.log.Error("Failed to find tickets by reservations", zap.Error(err), zap.Int("reservations", len(reservationIDs)))
		return nil, fmt.Errorf("find tickets by reservations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var view entity.TicketView
		err := rows.Scan(
			&view.ID,
			&view.PerformanceID,
			&view.ReservationID,
			&view.Row,
			&view.Seat,
			&view.Active,
			&view.CreatedAt,
			&view.ShowTime,
			&view.PlayID,
			&view.PlayTitle,
			&view.TheatreHallID,
			&view.TheatreHallName,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		if view.ReservationID != nil {
			result[*view.ReservationID] = append(result[*view.ReservationID], &view)
		}
	}

	return result, rows.Err()
}

// SetActiveByReservation flips the seat-hold flag of every ticket of a reservation.
// Tickets are never deleted.
func (r *ticketRepository) SetActiveByReservation(ctx context.Context, reservationID uuid.UUID, active bool) (int64, error) {
	query := `UPDATE tickets SET active = $2 WHERE reservation_id = $1`

	result, err := r.db.Exec(ctx, query, reservationID, active)
	if err != nil {
		r.log.Error("Failed to update tickets",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
			zap.Bool("active", active),
		)
		return 0, fmt.Errorf("update tickets of reservation %s: %w", reservationID.String(), err)
	}

	return result.RowsAffected(), nil
}
