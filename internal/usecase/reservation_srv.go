package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// CreateReservation books every requested ticket or none of them.
	CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	// CancelReservation frees the reservation's seats. Tickets are kept for history.
	CancelReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error)
	GetReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error)
	ListReservations(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
}

type reservationService struct {
	repo      *repository.Repository // reservations, tickets and performances share one transaction
	publisher events.Publisher
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "reservation")),
	}
}

// ValidateSeat checks that row and seat lie inside the hall.
// The returned error is a *ValidationError keyed by "row" and "seat".
func ValidateSeat(hall *entity.TheatreHall, row, seat int) error {
	fields := make(map[string]string)
	if row < 1 || row > hall.Rows {
		fields["row"] = fmt.Sprintf("must be between 1 and %d", hall.Rows)
	}
	if seat < 1 || seat > hall.SeatsInRow {
		fields["seat"] = fmt.Sprintf("must be between 1 and %d", hall.SeatsInRow)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CheckSeatAvailable fails with ErrSeatAlreadyBooked when an active reservation holds the seat.
func CheckSeatAvailable(ctx context.Context, tickets repository.TicketRepository, performanceID uuid.UUID, row, seat int) error {
	taken, err := tickets.ExistsActive(ctx, performanceID, row, seat)
	if err != nil {
		return fmt.Errorf("check seat availability: %w", err)
	}
	if taken {
		return &SeatConflictError{Row: row, Seat: seat}
	}
	return nil
}

type seatKey struct {
	performanceID uuid.UUID
	row           int
	seat          int
}

func (s *reservationService) CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	// 1. Validate request shape
	if err := validate(req); err != nil {
		s.log.Warn("Create reservation validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	reservation := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Status: true,
	}

	var tickets []*entity.Ticket
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		tickets = tickets[:0]

		// 2. Every ticket must point at a performance and fit its hall
		performanceIDs, err := s.checkSeats(ctx, tx, req.Tickets)
		if err != nil {
			return err
		}

		// 3. No seat may be requested twice or held by an active reservation
		requested := make(map[seatKey]struct{}, len(req.Tickets))
		for i, t := range req.Tickets {
			key := seatKey{performanceID: performanceIDs[i], row: t.Row, seat: t.Seat}
			if _, dup := requested[key]; dup {
				return &SeatConflictError{Field: ticketField(i), Row: t.Row, Seat: t.Seat}
			}
			requested[key] = struct{}{}

			if err := CheckSeatAvailable(ctx, tx.Ticket, key.performanceID, t.Row, t.Seat); err != nil {
				var conflict *SeatConflictError
				if errors.As(err, &conflict) {
					conflict.Field = ticketField(i)
				}
				return err
			}
		}

		// 4. Persist reservation and tickets
		if err := tx.Reservation.Create(ctx, reservation); err != nil {
			return err
		}

		for i, t := range req.Tickets {
			ticket := &entity.Ticket{
				BaseSimple: entity.BaseSimple{
					ID:        uuid.New(),
					CreatedAt: now,
				},
				PerformanceID: performanceIDs[i],
				ReservationID: &reservation.ID,
				Row:           t.Row,
				Seat:          t.Seat,
				Active:        true,
			}

			// the partial unique index catches a booking that committed after our check
			if err := tx.Ticket.Create(ctx, ticket); err != nil {
				if errors.Is(err, repository.ErrSeatTaken) {
					return &SeatConflictError{Field: ticketField(i), Row: t.Row, Seat: t.Seat}
				}
				return err
			}
			tickets = append(tickets, ticket)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrSeatAlreadyBooked) {
			s.log.Info("Reservation rejected", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, err
		}
		s.log.Error("Failed to create reservation", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, mapRepoError("create reservation", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("ticket_count", len(tickets)),
	)

	placed := make([]events.TicketPlaced, len(tickets))
	for i, ticket := range tickets {
		placed[i] = events.TicketPlaced{
			TicketID:      ticket.ID.String(),
			PerformanceID: ticket.PerformanceID.String(),
			Row:           ticket.Row,
			Seat:          ticket.Seat,
		}
	}
	publish(ctx, s.publisher, s.log, &events.ReservationCreated{
		ReservationID: reservation.ID.String(),
		UserID:        userID.String(),
		Tickets:       placed,
		OccurredAt:    now,
	})

	return s.buildResponse(ctx, reservation)
}

// checkSeats resolves each ticket's performance and validates the seat against its hall.
// It returns the performance id of every ticket, index aligned with the request.
func (s *reservationService) checkSeats(ctx context.Context, tx *repository.Repository, tickets []request.TicketRequest) ([]uuid.UUID, error) {
	cache := make(map[uuid.UUID]*entity.PerformanceDetail)
	ids := make([]uuid.UUID, len(tickets))
	fields := make(map[string]string)

	for i, t := range tickets {
		id, err := uuid.Parse(t.Performance)
		if err != nil {
			fields[ticketField(i)+".performance"] = "must be a valid UUID"
			continue
		}
		ids[i] = id

		performance, seen := cache[id]
		if !seen {
			performance, err = tx.Performance.FindDetailByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("get performance: %w", err)
			}
			cache[id] = performance
		}
		if performance == nil {
			fields[ticketField(i)+".performance"] = fmt.Sprintf("invalid pk %q - object does not exist", t.Performance)
			continue
		}

		if err := ValidateSeat(&performance.Hall, t.Row, t.Seat); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for field, message := range verr.Fields {
					fields[ticketField(i)+"."+field] = message
				}
			}
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return ids, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error) {
	var (
		reservation *entity.Reservation
		wasActive   bool
		freed       int64
	)

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		reservation, err = tx.Reservation.FindByIDForUser(ctx, reservationID, userID)
		if err != nil {
			return fmt.Errorf("get reservation: %w", err)
		}
		if reservation == nil {
			return notFound("reservation", reservationID)
		}

		wasActive = reservation.Status
		if !wasActive {
			return nil
		}

		if err := tx.Reservation.UpdateStatus(ctx, reservationID, userID, false); err != nil {
			return err
		}

		freed, err = tx.Ticket.SetActiveByReservation(ctx, reservationID, false)
		if err != nil {
			return err
		}

		reservation.Status = false
		reservation.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to cancel reservation", zap.Error(err), zap.String("reservation_id", reservationID.String()))
		return nil, mapRepoError("cancel reservation", err)
	}

	if wasActive {
		s.log.Info("Reservation cancelled",
			zap.String("reservation_id", reservationID.String()),
			zap.String("user_id", userID.String()),
			zap.Int64("freed_seats", freed),
		)

		publish(ctx, s.publisher, s.log, &events.ReservationCancelled{
			ReservationID: reservationID.String(),
			UserID:        userID.String(),
			TicketCount:   int(freed),
			OccurredAt:    time.Now().UTC(),
		})
	}

	return s.buildResponse(ctx, reservation)
}

func (s *reservationService) GetReservation(ctx context.Context, userID, reservationID uuid.UUID) (*response.ReservationResponse, error) {
	reservation, err := s.repo.Reservation.FindByIDForUser(ctx, reservationID, userID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil {
		return nil, notFound("reservation", reservationID)
	}

	return s.buildResponse(ctx, reservation)
}

func (s *reservationService) ListReservations(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	normalizePage(req)

	reservations, err := s.repo.Reservation.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	ids := make([]uuid.UUID, len(reservations))
	for i, reservation := range reservations {
		ids[i] = reservation.ID
	}

	tickets, err := s.repo.Ticket.FindByReservationIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}

	data := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		data[i] = response.ReservationToResponse(reservation, tickets[reservation.ID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *reservationService) buildResponse(ctx context.Context, reservation *entity.Reservation) (*response.ReservationResponse, error) {
	tickets, err := s.repo.Ticket.FindByReservationIDs(ctx, []uuid.UUID{reservation.ID})
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}

	resp := response.ReservationToResponse(reservation, tickets[reservation.ID])
	return &resp, nil
}

func ticketField(i int) string {
	return fmt.Sprintf("tickets[%d]", i)
}
