package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	BaseSimple
	PerformanceID uuid.UUID  `db:"performance_id"`
	ReservationID *uuid.UUID `db:"reservation_id"`
	Row           int        `db:"seat_row"`
	Seat          int        `db:"seat_number"`
	Active        bool       `db:"active"`
}

// TicketView is a ticket joined with its performance, play and hall.
type TicketView struct {
	Ticket
	ShowTime        time.Time
	PlayID          uuid.UUID
	PlayTitle       string
	TheatreHallID   uuid.UUID
	TheatreHallName string
}

// Seat is a (row, seat) pair inside a hall.
type Seat struct {
	Row  int `db:"seat_row"`
	Seat int `db:"seat_number"`
}
