package entity

import (
	"time"

	"github.com/google/uuid"
)

type Performance struct {
	BaseNoDelete
	PlayID        uuid.UUID `db:"play_id"`
	TheatreHallID uuid.UUID `db:"theatre_hall_id"`
	ShowTime      time.Time `db:"show_time"`
}

// PerformanceDetail is a performance joined with its play and hall.
type PerformanceDetail struct {
	Performance
	PlayTitle   string
	Hall        TheatreHall
	ActiveCount int
}

// AvailableTickets never goes below zero, even after a hall was shrunk under sold seats.
func (p *PerformanceDetail) AvailableTickets() int {
	return max(p.Hall.Capacity()-p.ActiveCount, 0)
}

// PerformanceFilter narrows performance listings. Date matches show times on that UTC calendar day.
type PerformanceFilter struct {
	Date   *time.Time
	PlayID *uuid.UUID
	Limit  int
	Offset int
}
