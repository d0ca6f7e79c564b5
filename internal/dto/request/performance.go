package request

import (
	"time"

	"github.com/google/uuid"
)

type PerformanceRequest struct {
	Play        string    `json:"play" validate:"required,uuid"`
	TheatreHall string    `json:"theatre_hall" validate:"required,uuid"`
	ShowTime    time.Time `json:"show_time" validate:"required"`
}

type PerformanceFilterRequest struct {
	PaginatedRequest
	Date   *time.Time
	PlayID *uuid.UUID
}
