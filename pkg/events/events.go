package events

import (
	"context"
	"time"
)

// Publisher publishes domain events. Event names are taken from the struct name.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type TicketPlaced struct {
	TicketID      string `json:"ticket_id"`
	PerformanceID string `json:"performance_id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

type ReservationCreated struct {
	ReservationID string         `json:"reservation_id"`
	UserID        string         `json:"user_id"`
	Tickets       []TicketPlaced `json:"tickets"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

type ReservationCancelled struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	TicketCount   int       `json:"ticket_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type PlayRated struct {
	PlayID        string    `json:"play_id"`
	UserID        string    `json:"user_id"`
	Mark          float64   `json:"mark"`
	AverageRating *float64  `json:"average_rating"`
	OccurredAt    time.Time `json:"occurred_at"`
}
